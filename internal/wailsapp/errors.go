// Package wailsapp provides common error definitions.
package wailsapp

import "errors"

var (
	// ErrNoStore is returned when the database store is not open.
	ErrNoStore = errors.New("banco de dados não inicializado")

	// ErrNoShare is returned when the network share is not configured.
	ErrNoShare = errors.New("compartilhamento de rede não configurado")

	// ErrNoCertificate is returned when an NFe query is attempted
	// before a certificate has been loaded.
	ErrNoCertificate = errors.New("nenhum certificado digital carregado")
)
