package backend

import (
	"context"
	"errors"

	"github.com/ivanka58/convertobot/types"
)

// ErrUnsupportedPair возвращается для пары форматов, которую бэкенд
// реально выполнить не может. Никаких имитаций результата: пара либо
// конвертируется по-настоящему, либо честно отклоняется.
var ErrUnsupportedPair = errors.New("conversion pair not supported")

type Request struct {
	InputPath    string
	OutputPath   string
	InputFormat  string
	OutputFormat string
	Flow         types.FlowKind
}

// Backend выполняет конвертацию файла или медиа-операцию.
// Вход и выход задаются локальными путями, выделенными заданием.
type Backend interface {
	Convert(ctx context.Context, req Request) error
}
