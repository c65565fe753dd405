package domain

// RawCertificateRecord é o registro no formato do upstream (crt.sh). O campo
// name_value pode trazer vários hostnames separados por quebra de linha
// (CN + SANs do mesmo certificado). Transiente: só o ResultProcessor lê.
type RawCertificateRecord struct {
	NameValue  string `json:"name_value"`
	NotBefore  string `json:"not_before,omitempty"`
	NotAfter   string `json:"not_after,omitempty"`
	IssuerName string `json:"issuer_name,omitempty"`
}

// ProcessedRecord é o fato consolidado por hostname após a redução: um por
// hostname único, com a janela de emissão mais recente vista.
//
// Os timestamps ficam como string (ISO-8601 do upstream): comparação
// lexicográfica equivale à cronológica nesse formato.
type ProcessedRecord struct {
	Hostname  string `json:"hostname"`
	NotBefore string `json:"notBefore,omitempty"`
	NotAfter  string `json:"notAfter,omitempty"`
	Issuer    string `json:"issuer,omitempty"`
}

// LookupResponse é o artefato visível externamente, e também o valor que vai
// para o cache. Invariante: Count == len(Results), Results ordenado por
// hostname ascendente.
type LookupResponse struct {
	Domain  string            `json:"domain"`
	Count   int               `json:"count"`
	Results []ProcessedRecord `json:"results"`
}
