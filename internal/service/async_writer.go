package service

import (
	"context"
	"sync"
	"time"

	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/metrics"
)

const defaultPersistTimeout = 3 * time.Second

// writeFunc 一次完整状态写入
type writeFunc func(ctx context.Context) error

// asyncWriter 单个 store 的后台落盘协程
// 写入按提交顺序串行执行；尚未开始的旧快照会被更新的快照覆盖。
// 失败只记录日志，不重试。
type asyncWriter struct {
	name    string
	timeout time.Duration

	mu      sync.Mutex
	cond    *sync.Cond
	pending writeFunc
	busy    bool
	closed  bool
	done    chan struct{}
}

func newAsyncWriter(name string, timeout time.Duration) *asyncWriter {
	if timeout <= 0 {
		timeout = defaultPersistTimeout
	}
	w := &asyncWriter{
		name:    name,
		timeout: timeout,
		done:    make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.loop()
	return w
}

// Submit 提交最新状态的写入，立即返回
func (w *asyncWriter) Submit(write writeFunc) {
	if w == nil || write == nil {
		return
	}
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		logger.Warnw("store_persist_dropped", "store", w.name, "reason", "writer_closed")
		return
	}
	w.pending = write
	w.mu.Unlock()
	w.cond.Broadcast()
}

// Flush 等待已提交的写入全部完成
func (w *asyncWriter) Flush(ctx context.Context) error {
	if w == nil {
		return nil
	}
	idle := make(chan struct{})
	go func() {
		w.mu.Lock()
		for w.pending != nil || w.busy {
			w.cond.Wait()
		}
		w.mu.Unlock()
		close(idle)
	}()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close 写完剩余数据后退出后台协程
func (w *asyncWriter) Close(ctx context.Context) error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.cond.Broadcast()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *asyncWriter) loop() {
	defer close(w.done)
	for {
		w.mu.Lock()
		for w.pending == nil && !w.closed {
			w.cond.Wait()
		}
		if w.pending == nil {
			w.mu.Unlock()
			return
		}
		write := w.pending
		w.pending = nil
		w.busy = true
		w.mu.Unlock()

		w.run(write)

		w.mu.Lock()
		w.busy = false
		w.mu.Unlock()
		w.cond.Broadcast()
	}
}

func (w *asyncWriter) run(write writeFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	err := write(ctx)
	metrics.RecordPersist(w.name, err)
	if err != nil {
		logger.Warnw("store_persist_failed", "store", w.name, "error", err)
	}
}
