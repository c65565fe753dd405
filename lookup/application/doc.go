// Package application contém os casos de uso da consulta de certificados.
//
// Ele depende apenas do pacote domain e não conhece net/http nem Redis.
// Ex.: Service.Lookup orquestra validação → rate limit → cache → busca
// coalescida → processamento → escrita no cache.
package application
