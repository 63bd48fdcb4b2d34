// Package application implementa os casos de uso do formulário de contato:
// validação e sanitização dos campos, heurística de spam, formatação do
// e-mail, entrega com retry e auditoria em background.
//
// Não conhece net/http; o adapter HTTP fica no pacote contact.
package application
