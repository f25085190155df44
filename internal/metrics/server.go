package metrics

import (
	"context"
	"log"
	"net/http"
	"time"
)

// Server는 /metrics와 /healthz를 제공하는 HTTP 서버입니다
type Server struct {
	addr string
	srv  *http.Server
}

// NewServer는 m을 노출하는 메트릭 서버를 생성합니다
func NewServer(addr string, m *Metrics) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return &Server{
		addr: addr,
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler는 서버의 HTTP 핸들러를 반환합니다
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start는 고루틴에서 HTTP 서버를 시작합니다
func (s *Server) Start() {
	go func() {
		log.Printf("메트릭 서버 시작: %s", s.addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("메트릭 서버 에러: %v", err)
		}
	}()
}

// Stop은 서버를 정상 종료합니다
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
