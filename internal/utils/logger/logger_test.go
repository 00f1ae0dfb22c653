package logger

import (
	"bytes"
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dwarvesf/tradeshield-backend/internal/types/environments"
)

type fatalHook struct {
	called bool
}

func (h *fatalHook) OnWrite(_ *zapcore.CheckedEntry, _ []zapcore.Field) {
	h.called = true
}

// bufferedLogger writes json entries at debug level into buf.
func bufferedLogger(buf *bytes.Buffer, opts ...zap.Option) *Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(buf),
		zap.DebugLevel,
	)
	return &Logger{zl: zap.New(core, opts...)}
}

func lastEntry(buf *bytes.Buffer) map[string]interface{} {
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	entry := map[string]interface{}{}
	Expect(json.Unmarshal([]byte(lines[len(lines)-1]), &entry)).To(Succeed())
	return entry
}

var _ = Describe("Logger", func() {
	var (
		buf *bytes.Buffer
		l   *Logger
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		l = bufferedLogger(buf)
	})

	Describe("#New", func() {
		It("builds a logger for every known environment", func() {
			for _, env := range []environments.Environment{
				environments.Development,
				environments.Test,
				environments.Staging,
				environments.Production,
			} {
				built := New(env)
				Expect(built).NotTo(BeNil())
				Expect(built.zl).NotTo(BeNil())
			}
		})

		It("drops debug entries outside development", func() {
			built := New(environments.Environment("unknown"))
			Expect(built.zl.Core().Enabled(zapcore.InfoLevel)).To(BeTrue())
			Expect(built.zl.Core().Enabled(zapcore.DebugLevel)).To(BeFalse())
		})
	})

	DescribeTable("writes one entry per call with its level and fields",
		func(log func(*Logger), level string) {
			log(l)

			entry := lastEntry(buf)
			Expect(entry["level"]).To(Equal(level))
			Expect(entry["pair"]).To(Equal("BTC/ETH"))
		},
		Entry("debug", func(l *Logger) { l.Debug("[Oracle] quote", map[string]string{"pair": "BTC/ETH"}) }, "debug"),
		Entry("info", func(l *Logger) { l.Info("[Swap] created", map[string]string{"pair": "BTC/ETH"}) }, "info"),
		Entry("warn", func(l *Logger) { l.Warn("[Oracle] fallback", map[string]string{"pair": "BTC/ETH"}) }, "warn"),
		Entry("error", func(l *Logger) { l.Error("[Swap] failed", map[string]string{"pair": "BTC/ETH"}) }, "error"),
	)

	It("accepts a call without fields", func() {
		l.Info("[Server] started")
		Expect(lastEntry(buf)["msg"]).To(Equal("[Server] started"))
	})

	It("uses only the first field map", func() {
		l.Info("two maps", map[string]string{"a": "1"}, map[string]string{"b": "2"})

		entry := lastEntry(buf)
		Expect(entry).To(HaveKeyWithValue("a", "1"))
		Expect(entry).NotTo(HaveKey("b"))
	})

	Describe("#With", func() {
		It("carries the bound fields on every entry", func() {
			child := l.With(map[string]string{"trade_id": "42"})
			child.Info("trade accepted")
			child.Error("trade fund failed", map[string]string{"error": "boom"})

			Expect(strings.Count(buf.String(), `"trade_id":"42"`)).To(Equal(2))
		})

		It("leaves the parent untouched", func() {
			_ = l.With(map[string]string{"trade_id": "42"})
			l.Info("parent")
			Expect(lastEntry(buf)).NotTo(HaveKey("trade_id"))
		})
	})

	Describe("#Fatal", func() {
		It("hands the entry to the fatal hook", func() {
			hook := &fatalHook{}
			l = bufferedLogger(buf, zap.WithFatalHook(hook))

			l.Fatal("vault unreachable", map[string]string{"addr": "http://vault:8200"})
			Expect(hook.called).To(BeTrue())
			Expect(lastEntry(buf)["addr"]).To(Equal("http://vault:8200"))
		})
	})

	Describe("#toZapFields", func() {
		It("maps every pair to a string field", func() {
			fields := toZapFields(map[string]string{"key1": "value1", "key2": "value2"})
			Expect(fields).To(ConsistOf(zap.String("key1", "value1"), zap.String("key2", "value2")))
		})

		It("returns an empty slice for an empty map", func() {
			Expect(toZapFields(map[string]string{})).To(BeEmpty())
		})
	})
})
