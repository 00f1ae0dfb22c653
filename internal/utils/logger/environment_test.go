package logger

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dwarvesf/tradeshield-backend/internal/types/environments"
)

var _ = Describe("configFor", func() {
	DescribeTable("builds the zap config for each environment",
		func(env environments.Environment, level zapcore.Level, encoding string, quiet bool, stdout bool) {
			cfg := configFor(env)

			Expect(cfg.Level.Level()).To(Equal(level))
			Expect(cfg.Encoding).To(Equal(encoding))
			Expect(cfg.DisableCaller).To(Equal(quiet))
			Expect(cfg.DisableStacktrace).To(Equal(quiet))
			if stdout {
				Expect(cfg.OutputPaths).To(Equal([]string{"stdout"}))
				Expect(cfg.ErrorOutputPaths).To(Equal([]string{"stderr"}))
			} else {
				Expect(cfg.OutputPaths).To(BeEmpty())
				Expect(cfg.ErrorOutputPaths).To(BeEmpty())
			}
		},
		Entry("production", environments.Production, zap.InfoLevel, "json", false, true),
		Entry("staging", environments.Staging, zap.InfoLevel, "json", true, true),
		Entry("development", environments.Development, zap.DebugLevel, "console", true, true),
		Entry("test", environments.Test, zap.InfoLevel, "json", false, false),
		Entry("unknown falls back to production", environments.Environment("qa"), zap.InfoLevel, "json", false, true),
	)

	It("marks only development as a development config", func() {
		Expect(configFor(environments.Development).Development).To(BeTrue())
		Expect(configFor(environments.Production).Development).To(BeFalse())
	})

	It("stamps json entries with an ISO8601 timestamp key", func() {
		cfg := configFor(environments.Production)
		Expect(cfg.EncoderConfig.TimeKey).To(Equal("timestamp"))
	})
})
