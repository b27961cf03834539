package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"keyvis/define"
	"keyvis/visualizer"
)

// 屏幕坐标到字符格的换算
const (
	pixelsPerColumn = 6
	pixelsPerRow    = 10
)

var (
	offStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	titleStyle = lipgloss.NewStyle().Bold(true)
)

// TerminalRenderer 在终端中模拟键盘上的小屏幕和背光。
// 文本按像素坐标换算到字符格，Flush 时把整屏连同背光色块写到 out。
type TerminalRenderer struct {
	mu    sync.Mutex
	out   io.Writer
	title string
	cols  int
	rows  int

	buffer    [][]rune
	backlight define.Color
	power     bool
}

// NewTerminalRenderer 按屏幕像素尺寸创建终端渲染器
func NewTerminalRenderer(out io.Writer, title string, display define.DisplayConfig) *TerminalRenderer {
	width, height := display.Width, display.Height
	if width <= 0 {
		width = 128
	}
	if height <= 0 {
		height = 32
	}
	t := &TerminalRenderer{
		out:   out,
		title: title,
		cols:  width / pixelsPerColumn,
		rows:  (height + pixelsPerRow - 1) / pixelsPerRow,
	}
	t.buffer = make([][]rune, t.rows)
	t.clear()
	return t
}

func (t *TerminalRenderer) OpenFont(name string) visualizer.Font { return font(name) }

func (t *TerminalRenderer) Clear() {
	t.mu.Lock()
	t.clear()
	t.mu.Unlock()
}

func (t *TerminalRenderer) clear() {
	for i := range t.buffer {
		t.buffer[i] = []rune(strings.Repeat(" ", t.cols))
	}
}

func (t *TerminalRenderer) DrawString(x, y int, text string, _ visualizer.Font) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row := y / pixelsPerRow
	col := x / pixelsPerColumn
	if row < 0 || row >= t.rows || col < 0 {
		return
	}
	line := t.buffer[row]
	for _, r := range text {
		if col >= t.cols {
			break
		}
		line[col] = r
		col++
	}
}

// Flush 把当前画面写到终端
func (t *TerminalRenderer) Flush() {
	t.mu.Lock()
	frame := t.render()
	t.mu.Unlock()
	fmt.Fprintln(t.out, frame)
}

func (t *TerminalRenderer) SetPower(on bool) {
	t.mu.Lock()
	t.power = on
	frame := t.render()
	t.mu.Unlock()
	fmt.Fprintln(t.out, frame)
}

// SetBacklight 设置背光颜色，屏幕打开且颜色变化时立即重绘
func (t *TerminalRenderer) SetBacklight(c define.Color) {
	t.mu.Lock()
	changed := t.backlight != c
	t.backlight = c
	if !changed || !t.power {
		t.mu.Unlock()
		return
	}
	frame := t.render()
	t.mu.Unlock()
	fmt.Fprintln(t.out, frame)
}

func (t *TerminalRenderer) SetBacklightRaw(h, s, i uint8) {
	t.SetBacklight(define.Color{Hue: h, Saturation: s, Intensity: i})
}

// Backlight 当前背光颜色
func (t *TerminalRenderer) Backlight() define.Color {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.backlight
}

func (t *TerminalRenderer) render() string {
	hex := Hex(t.backlight)
	header := titleStyle.Render(t.title) + " " +
		lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ") + " " + hex

	if !t.power {
		return offStyle.Render(header + " (off)")
	}

	lines := make([]string, len(t.buffer))
	for i, line := range t.buffer {
		lines[i] = string(line)
	}
	body := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(hex)).
		Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}
