package logger

import (
	"sync"
	"time"

	"github.com/natefinch/lumberjack"

	"bulletin/config"
)

// dailyFile 按天切换文件的日志输出，单个文件内由lumberjack按大小滚动
type dailyFile struct {
	mu   sync.Mutex
	cfg  config.LogFileConfig
	file *lumberjack.Logger

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func newDailyFile(cfg config.LogFileConfig, now time.Time) *dailyFile {
	return &dailyFile{
		cfg:  cfg,
		file: newLumberjack(cfg, now),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func newLumberjack(cfg config.LogFileConfig, now time.Time) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   dailyFileName(cfg.Path, now),
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
}

func nextMidnight(now time.Time) time.Time {
	next := now.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, next.Location())
}

// Write 实现 io.Writer
func (d *dailyFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.file.Write(p)
}

// Filename 当前写入的文件名
func (d *dailyFile) Filename() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.file.Filename
}

// switchTo 切换到 now 对应日期的文件
func (d *dailyFile) switchTo(now time.Time) error {
	d.mu.Lock()
	old := d.file
	d.file = newLumberjack(d.cfg, now)
	d.mu.Unlock()
	return old.Close()
}

// run 每天零点切换到新的日志文件，直到 Close
func (d *dailyFile) run() {
	defer close(d.done)
	for {
		timer := time.NewTimer(time.Until(nextMidnight(time.Now())))
		select {
		case <-d.stop:
			timer.Stop()
			return
		case now := <-timer.C:
			_ = d.switchTo(now)
		}
	}
}

// Close 停止切换并关闭当前文件，可重复调用
func (d *dailyFile) Close() error {
	var err error
	d.closeOnce.Do(func() {
		close(d.stop)
		<-d.done
		d.mu.Lock()
		defer d.mu.Unlock()
		err = d.file.Close()
	})
	return err
}
