package cmd

import (
	"context"
	"time"

	"lendledger/core"
	"lendledger/handler/hc"
	"lendledger/pkg/lockmap"
	"lendledger/service/accrual"
	"lendledger/service/block"
	"lendledger/service/borrower"
	"lendledger/service/interest"
	"lendledger/service/ledger"
	"lendledger/service/market"
	"lendledger/service/oracle"
	"lendledger/service/savings"
	"lendledger/service/session"
	"lendledger/service/token"
	"lendledger/service/user"
	"lendledger/store/checkpoint"
	"lendledger/store/dbtx"
	"lendledger/store/entry"
	"lendledger/store/price"
	"lendledger/store/rate"
	userstore "lendledger/store/user"

	"github.com/fox-one/mixin-sdk-go"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
	"github.com/go-redis/redis"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
}

func provideConfig() *core.Config {
	return &cfg
}

func provideWallet() *core.Wallet {
	c, err := mixin.NewFromKeystore(&cfg.Wallet.Keystore)
	if err != nil {
		panic(err)
	}

	return &core.Wallet{
		Client: c,
		Pin:    cfg.Wallet.Pin,
	}
}

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

// ---------------ledger-----------------------------------------

// node every service of one ledger process
type node struct {
	db       *db.DB
	config   *core.Config
	entries  core.EntryStore
	prices   core.PriceStore
	users    core.UserStore
	blocks   core.BlockService
	ledger   core.Ledger
	market   *market.Service
	interest core.InterestService
	oracle   core.PriceOracle
	wallet   *token.Mixin
	borrower *borrower.Service
	products map[string]core.SavingsService
}

func provideNode(database *db.DB) *node {
	config := provideConfig()
	transactor := dbtx.New(database)
	entries := entry.New(database)
	prices := price.New(database)
	blocks := block.New(config.App)

	l := ledger.New(checkpoint.New(database), entries, transactor, blocks)
	mkt := market.New(config)
	rates := interest.New(rate.Cache(rate.New(database), 4096), l, mkt, config.Interest)
	o := oracle.New(prices, mkt, config.PriceOracle)
	wallet := token.NewMixin(provideWallet(), mkt)
	locks := lockmap.New(1024)

	deposits := accrual.New(l, rates, transactor, core.AccountDeposit)
	supplies := accrual.New(l, rates, transactor, core.AccountSupply)
	loans := accrual.New(l, rates, transactor, core.AccountLoan)
	borrows := accrual.New(l, rates, transactor, core.AccountBorrow)

	b := borrower.New(l, transactor, borrows, supplies, o, mkt, locks, config.App.ProtocolID)

	return &node{
		db:       database,
		config:   config,
		entries:  entries,
		prices:   prices,
		users:    userstore.Cache(userstore.New(database), time.Hour),
		blocks:   blocks,
		ledger:   l,
		market:   mkt,
		interest: rates,
		oracle:   o,
		wallet:   wallet,
		borrower: b,
		products: map[string]core.SavingsService{
			"savings":  savings.New(l, transactor, deposits, wallet, locks, config.App.ProtocolID, nil),
			"supplier": savings.New(l, transactor, supplies, wallet, locks, config.App.ProtocolID, b.WithdrawGuard()),
			"loaner":   savings.New(l, transactor, loans, wallet, locks, config.App.ProtocolID, nil),
		},
	}
}

func (n *node) session() core.Session {
	issuers := n.config.Session.Issuers
	if len(issuers) == 0 {
		issuers = []string{n.config.Wallet.ClientID}
	}

	ttl := time.Duration(n.config.Session.TTL) * time.Second
	return session.New(user.New(n.users), n.config.Session.Capacity, ttl, issuers)
}

func (n *node) checks(rdb *redis.Client) map[string]hc.Check {
	checks := map[string]hc.Check{
		"db": func(ctx context.Context) error {
			return n.db.Update().DB().PingContext(ctx)
		},
	}

	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.WithContext(ctx).Ping().Err()
		}
	}

	return checks
}
