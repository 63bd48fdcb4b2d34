// Package infra contém os adapters concretos do pipeline de contato: mailers
// (Resend via HTTP, SMTP e log) e stores de auditoria (memória e Redis).
package infra
