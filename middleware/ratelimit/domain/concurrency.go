package domain

import "context"

// SlotPool limita quantas submissões são processadas ao mesmo tempo.
//
// Acquire bloqueia até conseguir uma vaga ou até o ctx encerrar; o release
// retornado deve ser chamado exatamente uma vez. InUse informa as vagas
// ocupadas no momento (usado em logs quando uma requisição é recusada).
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), ok bool)
	InUse() int
}
