// Package poll 反复调用 poll 函数直到条件满足，或超过迭代次数、等待时间、连续错误次数上限。
package poll

import (
	"context"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"go.uber.org/zap"

	"thor-wallet-core/pkg/errno"
	"thor-wallet-core/pkg/logger"
)

const (
	DefaultRequestInterval      = time.Second
	DefaultMaxConsecutiveErrors = 5
)

// Options 轮询参数，零值表示使用默认值或不限制
type Options struct {
	// RequestInterval 两次调用之间的间隔
	RequestInterval time.Duration
	// MaxIterations 最多调用次数，0 表示不限制
	MaxIterations int
	// MaxWaitingTime 最长等待时间，0 表示不限制
	MaxWaitingTime time.Duration
	// MaxConsecutiveErrors 允许的连续失败次数，超过后放弃
	MaxConsecutiveErrors int
	// Clock 默认为系统时钟
	Clock clock.Clock
}

func (o Options) withDefaults() Options {
	if o.RequestInterval <= 0 {
		o.RequestInterval = DefaultRequestInterval
	}
	if o.MaxConsecutiveErrors <= 0 {
		o.MaxConsecutiveErrors = DefaultMaxConsecutiveErrors
	}
	if o.Clock == nil {
		o.Clock = clock.NewDefaultClock()
	}
	return o
}

// SyncPoll 调用 poll 直到 until 返回 true，返回最后一次的结果。
// 超出限制时返回 errno.ErrPollExceeded，ctx 取消时返回 ctx.Err()。
func SyncPoll[T any](ctx context.Context, poll func(context.Context) (T, error), until func(T) bool, opts Options) (T, error) {
	opts = opts.withDefaults()

	var zero T
	start := opts.Clock.Now()
	consecutiveErrors := 0

	for iteration := 1; ; iteration++ {
		// 1. 调用并检查条件
		value, err := poll(ctx)
		if err != nil {
			consecutiveErrors++
			logger.Debug("poll failed",
				zap.Int("iteration", iteration),
				zap.Int("consecutive_errors", consecutiveErrors),
				zap.Error(err))
			if consecutiveErrors > opts.MaxConsecutiveErrors {
				return zero, exceeded("too many consecutive errors", iteration, err)
			}
		} else {
			consecutiveErrors = 0
			if until(value) {
				return value, nil
			}
		}

		// 2. 检查上限
		if opts.MaxIterations > 0 && iteration >= opts.MaxIterations {
			return zero, exceeded("max iterations reached", iteration, err)
		}
		if opts.MaxWaitingTime > 0 && opts.Clock.Now().Sub(start) >= opts.MaxWaitingTime {
			return zero, exceeded("max waiting time reached", iteration, err)
		}

		// 3. 等待下一次
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-opts.Clock.TickAfter(opts.RequestInterval):
		}
	}
}

func exceeded(msg string, iterations int, cause error) error {
	return errno.New(errno.ErrPollExceeded, "poll.SyncPoll", msg,
		map[string]any{"iterations": iterations}, cause)
}
