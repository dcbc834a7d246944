package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClaimLimiter(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	t.Run("burst then limited", func(t *testing.T) {
		limiter := NewClaimLimiter(60, 2, "X-Customer-ID")
		handler := limiter.Middleware(next)

		statuses := []int{}
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodPost, "/vouchers/claim", nil)
			req.Header.Set("X-Customer-ID", "cust1")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			statuses = append(statuses, rec.Code)
		}

		if statuses[0] != http.StatusCreated || statuses[1] != http.StatusCreated {
			t.Fatalf("burst requests rejected: %v", statuses)
		}
		if statuses[2] != http.StatusTooManyRequests {
			t.Fatalf("third request = %d, want 429", statuses[2])
		}
	})

	t.Run("buckets are per customer", func(t *testing.T) {
		limiter := NewClaimLimiter(60, 1, "X-Customer-ID")
		handler := limiter.Middleware(next)

		for _, customer := range []string{"cust1", "cust2"} {
			req := httptest.NewRequest(http.MethodPost, "/vouchers/claim", nil)
			req.Header.Set("X-Customer-ID", customer)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusCreated {
				t.Fatalf("customer %s rejected on first request: %d", customer, rec.Code)
			}
		}
	})
}
