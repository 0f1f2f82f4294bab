package util

import (
	"os/exec"
	"runtime"
)

// OpenBrowser 打开系统默认浏览器
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		// rundll32 在老版本 Windows 上比 cmd /c start 稳定
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	return cmd.Start()
}

// OpenBrowserWithFallback 打开浏览器，主方式失败时逐个尝试备选命令
func OpenBrowserWithFallback(url string) error {
	err := OpenBrowser(url)
	if err == nil {
		return nil
	}

	var fallbacks []string
	switch runtime.GOOS {
	case "windows":
		fallbacks = []string{"explorer"}
	case "linux":
		fallbacks = []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"}
	}
	for _, name := range fallbacks {
		if ferr := exec.Command(name, url).Start(); ferr == nil {
			return nil
		}
	}

	return err
}
