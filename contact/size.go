package contact

import "net/http"

// MaxBodyBytes é o teto de corpo do endpoint de contato (10KB).
const MaxBodyBytes int64 = 10 * 1024

// SizeLimit rejeita corpos declarados acima de max e limita os demais com
// http.MaxBytesReader; o estouro aparece como erro na leitura (parse).
func SizeLimit(max int64, onReject func(w http.ResponseWriter, r *http.Request)) func(next http.Handler) http.Handler {
	if max <= 0 {
		max = MaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > max {
				onReject(w, r)
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, max)
			}
			next.ServeHTTP(w, r)
		})
	}
}
