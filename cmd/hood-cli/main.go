package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/betbot/gohood/pkg/config"
	"github.com/betbot/gohood/pkg/logger"
	"github.com/betbot/gohood/pkg/persistence"
	"github.com/betbot/gohood/pkg/robinhood"
	"github.com/betbot/gohood/pkg/robinhood/crypto"
	"github.com/betbot/gohood/pkg/secretstore"
)

const sessionTag = "tokens"

func usage() {
	fmt.Fprintf(os.Stderr, `usage: hood-cli [-config path] <command> [args]

commands:
  login                          log in (prompts for the MFA code if required)
  logout                         revoke the session and forget the tokens
  quote SYMBOL...                print quotes
  portfolio                      print portfolio equity
  orders                         print recent orders
  buy SYMBOL QTY [PRICE]         market buy, or limit buy when PRICE is given
  sell SYMBOL QTY [PRICE]        market sell, or limit sell when PRICE is given
  cancel ORDER_ID                cancel an equity order
  crypto-quote SYMBOL            print a crypto pair quote
  crypto-buy SYMBOL DOLLARS      market buy a dollar notional of a pair
  crypto-sell SYMBOL QTY         market sell a pair quantity
`)
	os.Exit(2)
}

func main() {
	configPath := flag.String("config", getenv("GOHOOD_CONFIG", ""), "config file path (yaml/json)")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
	}

	// .env 是可选的，不存在时忽略
	_ = godotenv.Load()

	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		fatal(err)
	}
	if err := logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputFile: cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	}); err != nil {
		fatal(err)
	}

	app, err := newApp(cfg)
	if err != nil {
		fatal(err)
	}
	defer app.close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cmd, args := flag.Arg(0), flag.Args()[1:]
	if err := app.run(ctx, cmd, args); err != nil {
		fatal(err)
	}
}

type app struct {
	cfg     *config.Config
	client  *robinhood.Client
	crypto  *crypto.Trader
	session persistence.Store
	secrets *secretstore.Store
}

func newApp(cfg *config.Config) (*app, error) {
	opts := []robinhood.Option{
		robinhood.WithTimeout(time.Duration(cfg.API.TimeoutSeconds) * time.Second),
	}
	if cfg.API.BaseURL != "" || cfg.API.CryptoBaseURL != "" {
		ep := robinhood.DefaultEndpoints()
		if cfg.API.BaseURL != "" {
			ep.APIBase = cfg.API.BaseURL
		}
		if cfg.API.CryptoBaseURL != "" {
			ep.CryptoBase = cfg.API.CryptoBaseURL
		}
		opts = append(opts, robinhood.WithEndpoints(ep))
	}
	client := robinhood.NewClient(opts...)

	keyBytes, err := secretstore.ParseKey(getenv("GOHOOD_SECRET_KEY", ""))
	if err != nil {
		return nil, err
	}
	secrets, err := secretstore.Open(secretstore.OpenOptions{
		Path:          cfg.Session.SecretDir,
		EncryptionKey: keyBytes,
	})
	if err != nil {
		return nil, err
	}

	// 设备令牌持久化，重登录时保持同一设备身份
	if token, ok, err := secrets.DeviceToken(); err == nil && ok {
		client.SetDeviceToken(token)
	}

	a := &app{
		cfg:     cfg,
		client:  client,
		crypto:  crypto.NewTrader(client),
		session: persistence.NewJSONFileService(cfg.Session.Dir).NewStore("session", "robinhood", sessionTag),
		secrets: secrets,
	}
	// 已保存的会话可直接恢复，无需重新登录
	if err := client.RestoreSession(a.session); err == nil {
		logger.Debugf("[hood-cli] session restored")
	}
	return a, nil
}

func (a *app) close() {
	if a.secrets != nil {
		_ = a.secrets.Close()
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.login(ctx)
	case "logout":
		return a.logout(ctx)
	case "quote":
		return a.quote(ctx, args)
	case "portfolio":
		return a.portfolio(ctx)
	case "orders":
		return a.orders(ctx)
	case "buy":
		return a.trade(ctx, robinhood.SideBuy, args)
	case "sell":
		return a.trade(ctx, robinhood.SideSell, args)
	case "cancel":
		return a.cancel(ctx, args)
	case "crypto-quote":
		return a.cryptoQuote(ctx, args)
	case "crypto-buy":
		return a.cryptoBuy(ctx, args)
	case "crypto-sell":
		return a.cryptoSell(ctx, args)
	default:
		usage()
		return nil
	}
}

func (a *app) login(ctx context.Context) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	state, err := a.client.Login(ctx, a.cfg.Credentials.Username, a.cfg.Credentials.Password)
	if err != nil {
		return err
	}
	if state == robinhood.AuthStateAwaitingMFA {
		code, err := prompt("MFA code: ")
		if err != nil {
			return err
		}
		if _, err := a.client.SubmitMFA(ctx, code); err != nil {
			return err
		}
	}
	if err := a.secrets.SetDeviceToken(a.client.DeviceToken()); err != nil {
		logger.Warnf("[hood-cli] persist device token: %v", err)
	}
	if err := a.client.SaveSession(a.session); err != nil {
		return err
	}
	fmt.Println("logged in")
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		return err
	}
	// 清掉本地会话文件里的令牌
	if err := a.session.Save(robinhood.SessionState{}); err != nil {
		logger.Warnf("[hood-cli] clear session: %v", err)
	}
	fmt.Println("logged out")
	return nil
}

func (a *app) quote(ctx context.Context, symbols []string) error {
	if len(symbols) == 0 {
		return fmt.Errorf("quote needs at least one symbol")
	}
	quotes, err := a.client.Quotes(ctx, symbols...)
	if err != nil {
		return err
	}
	for _, q := range quotes {
		fmt.Printf("%-6s bid=%s ask=%s last=%s\n", q.Symbol, q.BidPrice, q.AskPrice, q.LastTradePrice)
	}
	return nil
}

func (a *app) portfolio(ctx context.Context) error {
	p, err := a.client.Portfolio(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("equity=%s market_value=%s buying_power_used=%s\n", p.Equity, p.MarketValue, p.ExcessMargin)
	return nil
}

func (a *app) orders(ctx context.Context) error {
	orders, err := a.client.OrderHistory(ctx)
	if err != nil {
		return err
	}
	for _, o := range orders {
		price := "-"
		if o.Price != nil {
			price = o.Price.String()
		}
		fmt.Printf("%s %-4s %-6s %-6s qty=%s price=%s state=%s\n",
			o.ID, o.Side, o.Type, o.InstrumentURL, o.Quantity, price, o.State)
	}
	return nil
}

func (a *app) trade(ctx context.Context, side robinhood.Side, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("%s needs SYMBOL QTY [PRICE]", side)
	}
	qty, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("bad quantity %q: %w", args[1], err)
	}
	req := robinhood.OrderRequest{Symbol: args[0], Side: side, Quantity: qty}
	if len(args) == 3 {
		price, err := decimal.NewFromString(args[2])
		if err != nil {
			return fmt.Errorf("bad price %q: %w", args[2], err)
		}
		req.Type = robinhood.OrderTypeLimit
		req.Price = &price
	}
	if a.cfg.DryRun {
		logger.Infof("[hood-cli] dry run: %s %d %s", side, qty, strings.ToUpper(args[0]))
		return nil
	}
	order, err := a.client.SubmitOrder(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("order %s state=%s\n", order.ID, order.State)
	return nil
}

func (a *app) cancel(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("cancel needs ORDER_ID")
	}
	order, err := a.client.CancelOrder(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("order %s state=%s\n", order.ID, order.State)
	return nil
}

func (a *app) cryptoQuote(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("crypto-quote needs SYMBOL")
	}
	q, err := a.crypto.Quote(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%-6s bid=%s ask=%s mark=%s\n", q.Symbol, q.BidPrice, q.AskPrice, q.MarkPrice)
	return nil
}

func (a *app) cryptoBuy(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("crypto-buy needs SYMBOL DOLLARS")
	}
	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("bad dollar amount %q: %w", args[1], err)
	}
	if a.cfg.DryRun {
		logger.Infof("[hood-cli] dry run: buy $%s of %s", amount, strings.ToUpper(args[0]))
		return nil
	}
	order, err := a.crypto.Buy(ctx, crypto.PlaceOrderRequest{
		Symbol:          args[0],
		AmountInDollars: &amount,
	})
	if err != nil {
		return err
	}
	fmt.Printf("crypto order %s state=%s\n", order.ID, order.State)
	return nil
}

func (a *app) cryptoSell(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("crypto-sell needs SYMBOL QTY")
	}
	qty, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("bad quantity %q: %w", args[1], err)
	}
	if a.cfg.DryRun {
		logger.Infof("[hood-cli] dry run: sell %s %s", qty, strings.ToUpper(args[0]))
		return nil
	}
	order, err := a.crypto.Sell(ctx, crypto.PlaceOrderRequest{
		Symbol:   args[0],
		Quantity: &qty,
	})
	if err != nil {
		return err
	}
	fmt.Printf("crypto order %s state=%s\n", order.ID, order.State)
	return nil
}

func prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err.Error())
	os.Exit(1)
}
