package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/adapter/http/dto"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

// serveAPI points the CLI at a test server for the duration of the test.
func serveAPI(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	origURL, origTimeout := baseURL, timeout
	t.Cleanup(func() { baseURL, timeout = origURL, origTimeout })
	baseURL, timeout = srv.URL, 5*time.Second
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	// The persistent flags would reset baseURL to its default.
	url := baseURL
	cmd.SetArgs(append([]string{"--url", url}, args...))

	var err error
	out := captureOutput(t, func() { err = cmd.Execute() })
	return out, err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printJSON(struct {
			A int `json:"a"`
		}{A: 1})
	})

	expected := "{\n  \"a\": 1\n}\n"
	if out != expected {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestPeriodLockCmd_WithDate(t *testing.T) {
	var gotBody dto.LockRequest
	serveAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/periods/lock" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(dto.PeriodResponse{
			ID:             "p-1",
			Date:           "2025-03-14",
			ClosingBalance: decimal.NewFromInt(50000),
			Locked:         true,
		})
	})

	out, err := execute(t, "period", "lock", "--date", "2025-03-14")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if gotBody.Date == nil || *gotBody.Date != "2025-03-14" {
		t.Fatalf("expected date in body, got %+v", gotBody)
	}
	if !strings.Contains(out, "locked") || !strings.Contains(out, "closing 50000.00") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestPeriodVerifyCmd_Inconsistent(t *testing.T) {
	serveAPI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(dto.VerificationResponse{PeriodID: "p-1", Date: "2025-03-14", Consistent: false})
	})

	_, err := execute(t, "period", "verify", "p-1")
	if err == nil || !strings.Contains(err.Error(), "INCONSISTENT") {
		t.Fatalf("expected inconsistency error, got %v", err)
	}
}

func TestPayCmd_SurfacesAPIError(t *testing.T) {
	serveAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(dto.ErrorResponse{Error: "failed to apply payment", Message: "payment exceeds remaining balance"})
	})

	_, err := execute(t, "pay", "l-1", "500000")
	if err == nil || !strings.Contains(err.Error(), "payment exceeds remaining balance") {
		t.Fatalf("expected API error, got %v", err)
	}
}

func TestPayCmd_InvalidAmount(t *testing.T) {
	serveAPI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected")
	})

	if _, err := execute(t, "pay", "l-1", "lots"); err == nil {
		t.Fatal("expected invalid amount error")
	}
}

func TestReportCmd_CSV(t *testing.T) {
	serveAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "csv" {
			t.Errorf("expected csv format, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("time,kind\n"))
	})

	out, err := execute(t, "report", "p-1", "--csv")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if out != "time,kind\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestSummaryCmd(t *testing.T) {
	serveAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/v1/loans/summary" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(dto.PortfolioResponse{
			Borrowers:        3,
			Loans:            2,
			ActiveLoans:      1,
			CompletedLoans:   1,
			TotalPrincipal:   decimal.NewFromInt(110000),
			TotalRepaid:      decimal.NewFromInt(41000),
			TotalOutstanding: decimal.NewFromInt(100000),
		})
	})

	out, err := execute(t, "summary")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "2 (1 active, 1 completed)") || !strings.Contains(out, "100000.00") {
		t.Fatalf("unexpected output: %s", out)
	}
}
