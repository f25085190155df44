package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Task는 스케줄러가 실행할 작업을 정의하는 인터페이스입니다
type Task interface {
	Execute(ctx context.Context) error
}

// TaskFunc는 함수를 Task로 사용할 수 있게 합니다
type TaskFunc func(ctx context.Context) error

// Execute는 함수를 호출합니다
func (f TaskFunc) Execute(ctx context.Context) error {
	return f(ctx)
}

// Scheduler는 cron 표현식에 맞춰 작업을 실행하는 스케줄러입니다.
// 표현식은 초 단위 필드를 포함한 6개 필드 형식입니다 (예: "0 5 1 * * *").
type Scheduler struct {
	spec     string
	schedule cron.Schedule
	task     Task
	cron     *cron.Cron
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewScheduler는 새로운 스케줄러를 생성합니다. 잘못된 표현식이면 에러를 반환합니다
func NewScheduler(spec string, task Task) (*Scheduler, error) {
	parser := cron.NewParser(
		cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("스케줄 표현식 파싱 실패 (%s): %w", spec, err)
	}

	logger := cron.PrintfLogger(log.Default())
	return &Scheduler{
		spec:     spec,
		schedule: schedule,
		task:     task,
		cron:     cron.New(cron.WithParser(parser), cron.WithChain(cron.SkipIfStillRunning(logger))),
		stopCh:   make(chan struct{}),
	}, nil
}

// Start는 스케줄러를 시작하고 ctx가 취소되거나 Stop이 호출될 때까지 대기합니다.
// 작업이 실패해도 다음 실행은 계속됩니다.
func (s *Scheduler) Start(ctx context.Context) error {
	s.cron.Schedule(s.schedule, cron.FuncJob(func() {
		if err := s.task.Execute(ctx); err != nil {
			log.Printf("작업 실행 실패: %v", err)
		}
	}))

	s.cron.Start()
	log.Printf("스케줄러 시작 (%s, 다음 실행: %s)", s.spec,
		s.schedule.Next(time.Now()).Format("2006-01-02 15:04:05 MST"))

	defer func() {
		// 실행 중인 작업이 끝날 때까지 대기
		<-s.cron.Stop().Done()
		log.Println("스케줄러 중지")
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopCh:
		return nil
	}
}

// Stop은 스케줄러를 중지합니다. 여러 번 호출해도 안전합니다
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}
