package logger

import (
	"strings"

	"github.com/nulzo/metasearch/internal/cli"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var bufferPool = buffer.NewPool()

// fieldsSeparator precedes the JSON object of structured fields on a console line.
const fieldsSeparator = "\t{"

// coloredConsoleEncoder is zap's console encoder with the trailing field
// object syntax highlighted.
type coloredConsoleEncoder struct {
	zapcore.Encoder
}

func NewColoredConsoleEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return coloredConsoleEncoder{Encoder: zapcore.NewConsoleEncoder(cfg)}
}

func (e coloredConsoleEncoder) Clone() zapcore.Encoder {
	return coloredConsoleEncoder{Encoder: e.Encoder.Clone()}
}

func (e coloredConsoleEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf, err := e.Encoder.EncodeEntry(ent, fields)
	if err != nil || !cli.Enabled() {
		return buf, err
	}

	head, object, found := strings.Cut(buf.String(), fieldsSeparator)
	if !found {
		return buf, nil
	}

	out := bufferPool.Get()
	out.AppendString(head)
	out.AppendByte('\t')
	out.AppendString(cli.HighlightJSON("{" + object))
	buf.Free()
	return out, nil
}
