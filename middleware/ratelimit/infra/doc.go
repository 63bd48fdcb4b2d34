// Package infra contém implementações concretas para os contratos do pacote
// domain.
//
// Exemplos:
//   - MemoryCounterStore / RedisCounterStore: contadores de janela fixa
//   - MemoryStatsStore / RedisStatsStore: estatísticas das decisões
//   - ChanPool: semáforo simples para limite de concorrência
package infra
