package devserver

import (
	"context"
	"log/slog"
	"time"
)

// AbsenceJob は前日に打刻のなかったユーザーを欠勤として記録する日次ジョブ。
// 毎日 RunHour:RunMinute（既定 00:05）に実行する。
type AbsenceJob struct {
	service   *Service
	logger    *slog.Logger
	now       func() time.Time
	RunHour   int
	RunMinute int
}

// NewAbsenceJob は新しいAbsenceJobを生成する。nowがnilの場合はtime.Nowを使う。
func NewAbsenceJob(service *Service, logger *slog.Logger, now func() time.Time) *AbsenceJob {
	if now == nil {
		now = time.Now
	}
	return &AbsenceJob{
		service:   service,
		logger:    logger,
		now:       now,
		RunHour:   0,
		RunMinute: 5,
	}
}

// Run は前日分の欠勤を記録し、記録した件数を返す。
// 前日が勤務日でない場合は何もしない。冪等: 既に記録がある場合は追加しない。
func (j *AbsenceJob) Run(ctx context.Context) int {
	start := time.Now()
	day := j.now().AddDate(0, 0, -1)

	marked := j.service.MarkAbsent(day)

	j.logger.InfoContext(ctx, "欠勤記録ジョブが完了しました",
		slog.String("date", dateOf(day)),
		slog.Bool("working_day", IsWorkingDay(day)),
		slog.Int("marked_count", marked),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)
	return marked
}

// NextRun はfromより後の最初の実行時刻を返す。
func (j *AbsenceJob) NextRun(from time.Time) time.Time {
	next := time.Date(from.Year(), from.Month(), from.Day(), j.RunHour, j.RunMinute, 0, 0, from.Location())
	if !next.After(from) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Start はコンテキストがキャンセルされるまで日次でRunを実行する。ブロッキング。
func (j *AbsenceJob) Start(ctx context.Context) {
	for {
		next := j.NextRun(j.now())
		timer := time.NewTimer(next.Sub(j.now()))

		select {
		case <-ctx.Done():
			timer.Stop()
			j.logger.Info("欠勤記録ジョブを停止しました")
			return
		case <-timer.C:
			j.Run(ctx)
		}
	}
}
