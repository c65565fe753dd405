package application

import (
	"context"
	"sync"

	"cert-lookup/lookup/domain"
)

// Coalescer garante no máximo uma busca upstream em voo por domínio: chamadas
// concorrentes para a mesma chave compartilham o mesmo resultado (ou o mesmo
// erro) da busca já iniciada.
//
// O resultado não fica guardado aqui — a entrada some no instante em que a
// busca termina, sucesso ou falha. Cachear é papel do Cache.
type Coalescer struct {
	mu       sync.Mutex
	inflight map[domain.Domain]*call
}

type call struct {
	done chan struct{}
	recs []domain.ProcessedRecord
	err  error
}

func NewCoalescer() *Coalescer {
	return &Coalescer{inflight: make(map[domain.Domain]*call)}
}

// Do retorna o resultado da busca em voo para d, iniciando fn em uma nova
// goroutine se não houver nenhuma.
//
// fn roda até o fim mesmo que todos os chamadores desistam: outros podem
// chegar no meio do caminho, e o resultado ainda alimenta o cache. Por isso
// fn deve usar um contexto desacoplado do chamador.
func (c *Coalescer) Do(ctx context.Context, d domain.Domain, fn func() ([]domain.ProcessedRecord, error)) ([]domain.ProcessedRecord, error) {
	c.mu.Lock()
	if cl, ok := c.inflight[d]; ok {
		c.mu.Unlock()
		return cl.wait(ctx)
	}

	cl := &call{done: make(chan struct{})}
	c.inflight[d] = cl
	c.mu.Unlock()

	go func() {
		cl.recs, cl.err = fn()

		// Remove antes de acordar os esperadores: uma requisição que chegar
		// depois da conclusão sempre começa trabalho novo.
		c.mu.Lock()
		delete(c.inflight, d)
		c.mu.Unlock()

		close(cl.done)
	}()

	return cl.wait(ctx)
}

func (cl *call) wait(ctx context.Context) ([]domain.ProcessedRecord, error) {
	select {
	case <-cl.done:
		return cl.recs, cl.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Inflight informa quantas buscas estão em voo agora (exposto para testes e
// diagnóstico).
func (c *Coalescer) Inflight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inflight)
}
