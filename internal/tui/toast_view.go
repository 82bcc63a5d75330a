package tui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/refixai/refix/internal/core/notify"
	"github.com/refixai/refix/internal/core/styles"
)

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// renderToasts stacks the toasts oldest first.
func renderToasts(c *ToastController) string {
	toasts := c.Toasts()
	if len(toasts) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		rendered = append(rendered, renderToast(t))
	}
	return strings.Join(rendered, "\n")
}

func renderToast(t toast) string {
	icon, style := styles.IconNotifyInfo, styles.ToastInfoStyle
	switch t.notification.Level {
	case notify.LevelError:
		icon, style = styles.IconNotifyError, styles.ToastErrorStyle
	case notify.LevelWarning:
		icon, style = styles.IconNotifyWarning, styles.ToastWarningStyle
	}
	return style.Width(toastWidth).Render(icon + " " + t.notification.Message)
}

// overlayToasts composites the toast stack over background, bottom right.
func overlayToasts(c *ToastController, background string, width, height int) string {
	content := renderToasts(c)
	if content == "" {
		return background
	}

	toastLayer := lipgloss.NewLayer(content)
	x := max(width-lipgloss.Width(content)-1, 0)
	y := max(height-lipgloss.Height(content), 0)
	toastLayer.X(x).Y(y).Z(2)

	return lipgloss.NewCompositor(lipgloss.NewLayer(background), toastLayer).Render()
}
