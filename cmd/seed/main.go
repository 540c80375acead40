package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bazar-api/internal/config"
	"bazar-api/internal/domain"
	"bazar-api/internal/email"
	"bazar-api/internal/kv"
	"bazar-api/internal/repository"
	"bazar-api/internal/service"
)

// seedAccount describe una cuenta demo con su pool de movimientos.
type seedAccount struct {
	businessName string
	email        string
	password     string
	phone        string
	language     string
	incomes      []seedEntry
	expenses     []seedEntry
}

type seedEntry struct {
	category    string
	description string
	min, max    int64
}

var demoAccounts = []seedAccount{
	{
		businessName: "TechFlow Solutions",
		email:        "demo@bazar.ai",
		password:     "Demo123!@#",
		phone:        "+996700123456",
		language:     "en",
		incomes: []seedEntry{
			{"sales", "Web development project", 25000, 120000},
			{"services", "Monthly support retainer", 15000, 40000},
			{"consulting", "Architecture consulting", 10000, 60000},
		},
		expenses: []seedEntry{
			{"rent", "Office rent", 30000, 30000},
			{"salaries", "Contractor payout", 20000, 80000},
			{"utilities", "Internet and electricity", 2000, 6000},
			{"marketing", "Online ads", 3000, 15000},
		},
	},
	{
		businessName: "Айгүл Дүкөнү",
		email:        "dordoi@bazar.ai",
		password:     "Dordoi123!@#",
		phone:        "+996555987654",
		language:     "ky",
		incomes: []seedEntry{
			{"sales", "Кийим сатуу", 5000, 45000},
			{"sales", "Оптом буюртма", 20000, 90000},
		},
		expenses: []seedEntry{
			{"inventory", "Товар алуу", 15000, 70000},
			{"rent", "Орун ижарасы", 12000, 12000},
			{"transport", "Жүк ташуу", 1500, 5000},
		},
	},
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	var store kv.Store
	switch {
	case cfg.DatabaseURL != "":
		store, err = kv.NewPostgresStore(ctx, cfg.DatabaseURL)
	default:
		store, err = kv.NewSQLiteStore(ctx, cfg.SQLitePath)
	}
	if err != nil {
		logger.Fatal("storage open", zap.Error(err))
	}
	defer store.Close()

	authSvc := service.NewAuthService(
		logger,
		repository.NewKVUserRepository(store),
		repository.NewKVSessionRepository(store),
		repository.NewKVAttemptRepository(store),
		repository.NewKVCodeRepository(store),
		email.NewDisabledSender("seed does not send email"),
		time.Duration(cfg.AttemptWindowMinutes)*time.Minute,
	)
	ledgerSvc := service.NewLedgerService(logger, repository.NewKVTransactionRepository(store))

	rng := rand.New(rand.NewSource(42))
	now := time.Now().UTC()

	for _, account := range demoAccounts {
		user, err := authSvc.Register(ctx, service.RegisterInput{
			BusinessName: account.businessName,
			Email:        account.email,
			Password:     account.password,
			Phone:        account.phone,
			Language:     account.language,
		})
		if err != nil {
			if errors.Is(err, service.ErrDuplicateUser) {
				logger.Info("account already seeded", zap.String("email", account.email))
				continue
			}
			logger.Fatal("seed register failed", zap.String("email", account.email), zap.Error(err))
		}

		count := 0
		// Seis meses de movimientos, de los más viejos a los más nuevos,
		// así la colección queda más-nueva-primero.
		for daysAgo := 180; daysAgo >= 0; daysAgo -= 2 + rng.Intn(4) {
			ts := now.AddDate(0, 0, -daysAgo).Add(-time.Duration(rng.Intn(10)) * time.Hour)

			entry := account.incomes[rng.Intn(len(account.incomes))]
			txType := domain.TypeIncome
			if rng.Intn(100) < 45 {
				entry = account.expenses[rng.Intn(len(account.expenses))]
				txType = domain.TypeExpense
			}

			amount := entry.min
			if entry.max > entry.min {
				amount += rng.Int63n(entry.max - entry.min)
			}
			_, err := ledgerSvc.Add(ctx, user.ID, domain.Transaction{
				Amount:        decimal.NewFromInt(amount),
				Type:          txType,
				Category:      entry.category,
				PaymentMethod: pick(rng, "cash", "card", "transfer"),
				Description:   entry.description,
				Timestamp:     ts,
				TaxRelevant:   txType == domain.TypeIncome,
			})
			if err != nil {
				logger.Fatal("seed transaction failed", zap.Error(err))
			}
			count++
		}

		// La cuenta demo no debe quedar con sesión abierta.
		if err := authSvc.Logout(ctx, user.ID); err != nil {
			logger.Warn("seed logout failed", zap.Error(err))
		}
		logger.Info("seeded account",
			zap.String("email", account.email),
			zap.Int("transactions", count),
		)
	}
}

func pick(rng *rand.Rand, options ...string) string {
	return options[rng.Intn(len(options))]
}
