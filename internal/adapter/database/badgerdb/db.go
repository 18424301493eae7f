package badgerdb

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

type DB struct {
	*badger.DB
	Driver string
}

type Options struct {
	// Path to the database directory. If empty, uses in-memory mode.
	Path string
	// InMemory forces in-memory mode. Path is ignored and nothing touches disk.
	InMemory bool
	// Logger for BadgerDB. If nil, logging is disabled.
	Logger *zap.Logger
}

func NewDB(opts Options) (*DB, error) {
	badgerOpts := badger.DefaultOptions(opts.Path)

	// badger refuses in-memory mode with a directory set.
	if opts.Path == "" || opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	}

	if opts.Logger != nil {
		badgerOpts = badgerOpts.WithLogger(&zapBadgerLogger{opts.Logger.Sugar()})
	} else {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	return &DB{
		DB:     db,
		Driver: "badger",
	}, nil
}

// zapBadgerLogger adapts a zap sugared logger to badger.Logger.
type zapBadgerLogger struct {
	s *zap.SugaredLogger
}

func (l *zapBadgerLogger) Errorf(format string, args ...interface{}) {
	l.s.Errorf(format, args...)
}

func (l *zapBadgerLogger) Warningf(format string, args ...interface{}) {
	l.s.Warnf(format, args...)
}

func (l *zapBadgerLogger) Infof(format string, args ...interface{}) {
	l.s.Infof(format, args...)
}

func (l *zapBadgerLogger) Debugf(format string, args ...interface{}) {
	l.s.Debugf(format, args...)
}
