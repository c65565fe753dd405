package domain

import (
	"sort"
	"strings"
	"unicode"
)

// Process reduz os registros brutos do upstream a exatamente uma linha por
// hostname: o mesmo certificado nomeia vários hosts e o mesmo host aparece em
// vários certificados.
//
// Regras de merge por hostname (chave minúscula, wildcard "*." removido):
//   - NotBefore/NotAfter: mantém o maior valor visto, quando presente
//   - Issuer: primeiro valor não vazio
//
// O resultado sai ordenado por hostname ascendente; empates preservam a ordem
// de chegada (sort estável).
func Process(raw []RawCertificateRecord) []ProcessedRecord {
	byHost := make(map[string]*ProcessedRecord)
	order := make([]string, 0, len(raw))

	for _, rec := range raw {
		for _, cand := range strings.Split(rec.NameValue, "\n") {
			name := strings.TrimSpace(cand)
			name = strings.TrimPrefix(name, "*.")
			name = strings.ToLower(name)
			if name == "" || name == "*" || containsSpace(name) {
				continue
			}

			p, ok := byHost[name]
			if !ok {
				byHost[name] = &ProcessedRecord{
					Hostname:  name,
					NotBefore: rec.NotBefore,
					NotAfter:  rec.NotAfter,
					Issuer:    rec.IssuerName,
				}
				order = append(order, name)
				continue
			}

			if rec.NotBefore != "" && rec.NotBefore > p.NotBefore {
				p.NotBefore = rec.NotBefore
			}
			if rec.NotAfter != "" && rec.NotAfter > p.NotAfter {
				p.NotAfter = rec.NotAfter
			}
			if p.Issuer == "" {
				p.Issuer = rec.IssuerName
			}
		}
	}

	out := make([]ProcessedRecord, 0, len(order))
	for _, name := range order {
		out = append(out, *byHost[name])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Hostname < out[j].Hostname
	})
	return out
}

func containsSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) != -1
}
