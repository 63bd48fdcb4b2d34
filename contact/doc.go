// Package contact é o adapter HTTP do pipeline de contato.
//
// A ordem de processamento de POST /api/contact é fixa e para na primeira
// falha: preflight CORS (fora do roteador), rota, tamanho do corpo, rate
// limit, parse, validação, spam e entrega. Toda resposta é JSON no envelope
// {success, message, errors?}. Terminações anormais e os desfechos de
// sucesso geram um registro de auditoria assíncrono que nunca altera a
// resposta.
package contact
