// Package lookup fornece o adapter HTTP (net/http) da consulta de
// certificados por domínio.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (orquestração, coalescência, rate limit)
//   - infra: implementações concretas (Redis, memória, cliente upstream)
//   - lookup (este pacote): handler HTTP + extração de chave do cliente +
//     tradução de erros para status/códigos estáveis
//
// Fluxo de uma requisição:
//
//  1. Extrai a chave do cliente (IP/header/XFF)
//  2. Chama a camada application, que valida o domínio, aplica o rate limit,
//     consulta o cache e, em caso de miss, dispara uma única busca upstream
//     por domínio (requisições concorrentes compartilham o resultado)
//  3. Traduz o resultado: 200 com X-Cache HIT/MISS, 400/429/502/500 com
//     código estável no corpo
//
// Variáveis de ambiente do binário (cmd/certlookup) controlam o
// comportamento, como REDIS_ADDR, CACHE_TTL, RATE_LIMIT_PER_MINUTE e
// UPSTREAM_URL.
package lookup
