package auth

import (
	"net/http"

	"github.com/kbukum/retrokit/httpapi"
	"github.com/kbukum/retrokit/interceptor"
)

// BearerInterceptor sets "Authorization: Bearer <token>" from src on every
// request. The token is fetched with the request's context.
func BearerInterceptor(src TokenSource) interceptor.Interceptor[*http.Request] {
	return interceptor.NewNamedFunc("bearer", func(req *http.Request) error {
		tok, err := src.Token(req.Context())
		if err != nil {
			return err
		}
		return httpapi.SetBearer(req.Header, tok)
	})
}
