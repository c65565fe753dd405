package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
)

// Upstream falso no formato do crt.sh, para validar o serviço na mão:
// responde 429 nas primeiras RATE_LIMIT_FIRST requisições de cada domínio
// para dar para ver o backoff (2s, 4s) acontecendo no log do certlookup.
func main() {
	limitFirst := 0
	if v := os.Getenv("RATE_LIMIT_FIRST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limitFirst = n
		}
	}

	var calls atomic.Int64

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		q := r.URL.Query().Get("q")
		fmt.Printf("Log: chamada #%d para q=%s\n", n, q)

		if int(n) <= limitFirst {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `[
  {"name_value":"*.%s\n%s","not_before":"2023-01-01T00:00:00","not_after":"2023-04-01T00:00:00","issuer_name":"C=US, O=Let's Encrypt, CN=R3"},
  {"name_value":"api.%s","not_before":"2024-06-15T00:00:00","not_after":"2024-09-13T00:00:00","issuer_name":"C=US, O=Let's Encrypt, CN=R3"}
]`, q, q, q)
	})

	addr := ":9090"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	fmt.Printf("Servidor falso do crt.sh rodando em http://localhost%s\n", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		fmt.Printf("Erro ao subir o servidor: %s\n", err)
	}
}
