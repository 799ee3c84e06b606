package logger

import (
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Config настройки логгера сервиса
type Config struct {
	Service      string
	Level        string    // debug, info, warn, error
	Format       string    // json (по умолчанию) или console
	LogstashAddr string    // host:port, пусто - только stdout
	Output       io.Writer // для тестов, по умолчанию os.Stdout
}

// Init настраивает глобальный логгер.
// Ошибка подключения к Logstash не фатальна: логгер остается на stdout и ошибка возвращается вызывающему.
func Init(cfg Config) error {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var out io.Writer = os.Stdout
	if cfg.Output != nil {
		out = cfg.Output
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
	}

	var dialErr error
	if cfg.LogstashAddr != "" {
		conn, err := net.DialTimeout("tcp", cfg.LogstashAddr, 5*time.Second)
		if err != nil {
			dialErr = err
		} else {
			out = zerolog.MultiLevelWriter(out, conn)
		}
	}

	log = zerolog.New(out).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", cfg.Service).
		Logger()

	return dialErr
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

func Info() *zerolog.Event {
	return log.Info()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}

// Component возвращает дочерний логгер с полем component
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
