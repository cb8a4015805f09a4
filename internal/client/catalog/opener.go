package catalog

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Opener открывает ссылку во внешнем приложении, аналог нового окна браузера
type Opener interface {
	Open(url string) error
}

type OpenerFunc func(url string) error

func (f OpenerFunc) Open(url string) error { return f(url) }

// BrowserOpener запускает системный обработчик ссылок и не ждёт его завершения
type BrowserOpener struct{}

func (BrowserOpener) Open(url string) error {
	const op = "catalog.BrowserOpener.Open"

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	go func() { _ = cmd.Wait() }()

	return nil
}

// Resolver проверяет, что ссылка на файл доступна, и возвращает абсолютный адрес
type Resolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}
