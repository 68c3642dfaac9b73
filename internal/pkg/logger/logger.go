package logger

import (
	"log"
	"os"
)

// 很小的日志包装，够服务端打点用
type Logger struct {
	std *log.Logger
	env string
}

// Init 创建日志器；dev 环境才输出 Debug
func Init(env string) *Logger {
	l := log.New(os.Stdout, "[fasting] ", log.LstdFlags|log.Lmsgprefix)
	return &Logger{std: l, env: env}
}

func (l *Logger) Info(msg string, kvs ...interface{}) {
	l.std.Printf("INFO: %s %v", msg, kvs)
}

func (l *Logger) Debug(msg string, kvs ...interface{}) {
	if l.env != "dev" {
		return
	}
	l.std.Printf("DEBUG: %s %v", msg, kvs)
}

func (l *Logger) Error(msg string, kvs ...interface{}) {
	l.std.Printf("ERROR: %s %v", msg, kvs)
}

func (l *Logger) Fatal(msg string, kvs ...interface{}) {
	l.std.Printf("FATAL: %s %v", msg, kvs)
	os.Exit(1)
}

func (l *Logger) Sync() error { return nil }
