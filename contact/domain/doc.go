// Package domain define os tipos do pipeline de submissão do formulário de
// contato: entrada crua, resultado da validação, submissão sanitizada,
// mensagem de e-mail, tentativas de entrega, eventos de auditoria e a
// taxonomia de erros que o adapter HTTP traduz em status.
//
// Nada aqui depende de net/http nem de provedores concretos.
package domain
