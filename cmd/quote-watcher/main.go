package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/betbot/gohood/pkg/config"
	"github.com/betbot/gohood/pkg/robinhood"
)

const pollInterval = 2 * time.Second

// 文件日志记录器（只写入文件，不输出到终端，避免污染 TUI 画面）
var (
	fileLogger     *log.Logger
	fileLoggerOnce sync.Once
)

func initFileLogger() {
	fileLoggerOnce.Do(func() {
		logDir := "logs"
		if err := os.MkdirAll(logDir, 0755); err != nil {
			logDir = os.TempDir()
		}
		file, err := os.OpenFile(filepath.Join(logDir, "quote-watcher.log"),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			file = os.NewFile(0, os.DevNull)
		}
		fileLogger = log.New(file, "", log.LstdFlags)
	})
}

func logf(format string, v ...interface{}) {
	initFileLogger()
	fileLogger.Printf(format, v...)
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	symbolStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	upStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("2")) // 绿色

	downStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")) // 红色

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)

type quoteRow struct {
	symbol string
	bid    decimal.Decimal
	ask    decimal.Decimal
	last   decimal.Decimal
	prev   decimal.Decimal // 上一次的 last，用于涨跌着色
}

type model struct {
	client  *robinhood.Client
	symbols []string
	rows    map[string]quoteRow
	err     error
	updated time.Time
}

type tickMsg time.Time

type quotesMsg struct {
	quotes []robinhood.Quote
	err    error
}

func initialModel(client *robinhood.Client, symbols []string) model {
	return model{
		client:  client,
		symbols: symbols,
		rows:    make(map[string]quoteRow),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(fetchCmd(m.client, m.symbols), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchCmd(client *robinhood.Client, symbols []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pollInterval)
		defer cancel()
		quotes, err := client.Quotes(ctx, symbols...)
		return quotesMsg{quotes: quotes, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tickMsg:
		return m, tea.Batch(fetchCmd(m.client, m.symbols), tickCmd())
	case quotesMsg:
		if msg.err != nil {
			logf("fetch quotes: %v", msg.err)
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.updated = time.Now()
		for _, q := range msg.quotes {
			prev := m.rows[q.Symbol].last
			m.rows[q.Symbol] = quoteRow{
				symbol: q.Symbol,
				bid:    q.BidPrice,
				ask:    q.AskPrice,
				last:   q.LastTradePrice,
				prev:   prev,
			}
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("quote watcher"))
	b.WriteString("\n\n")

	var lines []string
	lines = append(lines, fmt.Sprintf("%-8s %12s %12s %12s", "SYMBOL", "BID", "ASK", "LAST"))
	for _, sym := range m.symbols {
		row, ok := m.rows[strings.ToUpper(sym)]
		if !ok {
			lines = append(lines, fmt.Sprintf("%-8s %12s %12s %12s", strings.ToUpper(sym), "-", "-", "-"))
			continue
		}
		last := row.last.StringFixed(2)
		switch {
		case row.last.GreaterThan(row.prev) && !row.prev.IsZero():
			last = upStyle.Render(last)
		case row.last.LessThan(row.prev):
			last = downStyle.Render(last)
		}
		lines = append(lines, fmt.Sprintf("%s %12s %12s %12s",
			symbolStyle.Render(fmt.Sprintf("%-8s", row.symbol)),
			row.bid.StringFixed(2), row.ask.StringFixed(2), last))
	}
	b.WriteString(borderStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(downStyle.Render(fmt.Sprintf("error: %v", m.err)))
		b.WriteString("\n")
	} else if !m.updated.IsZero() {
		b.WriteString(dimStyle.Render(fmt.Sprintf("updated %s", m.updated.Format("15:04:05"))))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("q to quit"))
	b.WriteString("\n")
	return b.String()
}

func main() {
	configPath := flag.String("config", os.Getenv("GOHOOD_CONFIG"), "config file path (yaml/json)")
	flag.Parse()
	symbols := flag.Args()
	if len(symbols) == 0 {
		fmt.Fprintln(os.Stderr, "usage: quote-watcher [-config path] SYMBOL...")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err.Error())
		os.Exit(1)
	}
	client := robinhood.NewClient(
		robinhood.WithTimeout(time.Duration(cfg.API.TimeoutSeconds) * time.Second),
	)

	p := tea.NewProgram(initialModel(client, symbols), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err.Error())
		os.Exit(1)
	}
}
