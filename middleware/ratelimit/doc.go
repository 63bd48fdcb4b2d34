// Package ratelimit fornece adapters HTTP (net/http) para rate limit por janela
// fixa e limite de concorrência.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (decisão allow/deny com fail-open, acquire/timeout)
//   - infra: implementações concretas (contadores em memória/Redis, semáforo)
//   - ratelimit (este pacote): middlewares HTTP + extração de chave + headers
//
// Fluxo no endpoint de contato:
//
//  1. Extrai a chave do cliente (header da borda/XFF/RemoteAddr, ou "unknown")
//  2. Chama a camada application para obter a decisão
//  3. Se bloqueado, define Retry-After e delega a resposta ao OnReject (429)
//  4. Se permitido, chama o próximo handler
package ratelimit
