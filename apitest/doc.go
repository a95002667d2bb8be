// Package apitest provides a recording HTTP server for exercising API
// clients in tests.
//
// The server is a gin engine behind httptest. Every request is recorded
// before routing; routes registered with Handle answer as configured and
// everything else is echoed back as JSON:
//
//	srv := apitest.NewServer(t)
//	srv.Handle(http.MethodGet, "/products/:id", func(c *gin.Context) {
//	    c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
//	})
//	// ... call srv.URL() ...
//	last, _ := srv.Last()
package apitest
