package main

import (
	"mdcodec/internal/ops"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

// startProfiler starts continuous profiling when a server is configured and
// returns the function stopping it.
func startProfiler(cfg ops.PyroscopeConfig) (func(), error) {
	if cfg.ServerAddress == "" {
		return func() {}, nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ApplicationName,
		ServerAddress:   cfg.ServerAddress,
		Logger:          profilerLogger{},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "pyroscope start")
	}
	logs.Infof("pyroscope: profiling %s to %s", cfg.ApplicationName, cfg.ServerAddress)

	return func() {
		if err := profiler.Stop(); err != nil {
			logs.Errorf("pyroscope stop: %+v", err)
		}
	}, nil
}

type profilerLogger struct{}

func (profilerLogger) Infof(format string, args ...interface{})  { logs.Infof(format, args...) }
func (profilerLogger) Debugf(_ string, _ ...interface{})         {}
func (profilerLogger) Errorf(format string, args ...interface{}) { logs.Errorf(format, args...) }
