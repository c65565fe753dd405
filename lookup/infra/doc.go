// Package infra contém implementações concretas (infraestrutura) para os
// contratos definidos no pacote domain.
//
// Exemplos:
//   - RedisCache / MemoryCache / TieredCache: camadas de cache com TTL
//   - RedisCounter / MemoryCounter: contadores de janela para rate limit
//   - UpstreamClient: busca no endpoint de certificate transparency com
//     retentativa em 429 e ritmo limitado por golang.org/x/time/rate
package infra
