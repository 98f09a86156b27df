package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"coolpc/internal/api"
	"coolpc/internal/cache"
	"coolpc/internal/catalog"
	"coolpc/internal/config"
	"coolpc/internal/crawler"
	"coolpc/internal/db"
	"coolpc/internal/model"
	"coolpc/internal/observability"
	"coolpc/internal/parser"
	"coolpc/internal/repository"
)

// go run cmd/server/main.go evaluate.html
// go run cmd/server/main.go -fetch -refresh 30m
// go run cmd/server/main.go -snapshot
func main() {
	fetch := flag.Bool("fetch", false, "啟動時從原價屋下載資料")
	snapshot := flag.Bool("snapshot", false, "從 Postgres 載入最新快照")
	refresh := flag.Duration("refresh", 0, "定期重新下載並更新目錄 (例如 30m)")
	release := flag.Bool("release", false, "使用 Gin release 模式")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	log.Printf("服務埠: %s", cfg.ServerPort)
	log.Printf("請求限制: 每秒 %.1f 次 (burst %d)", cfg.RateLimit, cfg.RateBurst)

	observability.Start(cfg.MetricsPort)

	client := &crawler.Client{
		URL:       cfg.SourceURL,
		UserAgent: cfg.UserAgent,
		Encoding:  cfg.SourceEncoding,
		Timeout:   cfg.FetchTimeout,
	}
	if cfg.RedisURL != "" {
		c, err := cache.New(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			log.Printf("Redis 無法使用，略過快取: %v", err)
		} else {
			defer c.Close()
			client.Cache = c
		}
	}

	var categories []model.Category
	switch {
	case *snapshot:
		categories = loadSnapshot(ctx, cfg)
	case *fetch:
		doc, err := client.FetchDocument(ctx)
		if err != nil {
			log.Fatal(crawler.Describe(err))
		}
		categories = parse(doc)
	default:
		input := "evaluate.html"
		if flag.NArg() > 0 {
			input = flag.Arg(0)
		}
		b, err := os.ReadFile(input)
		if err != nil {
			log.Fatalf("讀取檔案 %s 失敗: %v", input, err)
		}
		categories = parse(string(b))
	}
	log.Printf("目錄載入完成，共 %d 個類別", len(categories))

	store := catalog.NewStore(catalog.New(categories))
	if *refresh > 0 {
		go refreshLoop(ctx, client, store, *refresh)
	}

	handler := api.NewHandler(store)
	router := api.SetupRouter(api.RouterConfig{
		Release:   *release,
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
	}, handler)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("API 服務啟動於 %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("無法啟動服務: %v", err)
	}
}

func parse(doc string) []model.Category {
	categories := parser.Parse(doc)
	observability.RecordParse(categories)
	return categories
}

func loadSnapshot(ctx context.Context, cfg *config.Config) []model.Category {
	if cfg.DatabaseURL == "" {
		log.Fatalf("未設定 DATABASE_URL")
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("無法連線資料庫: %v", err)
	}
	defer pool.Close()

	repo := &repository.ProductRepository{DB: pool}
	snap, err := repo.LatestSnapshot(ctx)
	if err != nil {
		log.Fatalf("找不到快照: %v", err)
	}
	categories, err := repo.LoadSnapshot(ctx, snap.ID)
	if err != nil {
		log.Fatalf("載入快照 %s 失敗: %v", snap.ID, err)
	}
	log.Printf("使用快照 %s (%s)", snap.ID, snap.CreatedAt.Format(time.RFC3339))
	return categories
}

// refreshLoop keeps serving the previous catalog when a fetch fails.
func refreshLoop(ctx context.Context, client *crawler.Client, store *catalog.Store, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			doc, err := client.FetchDocument(ctx)
			if err != nil {
				log.Printf("更新失敗，沿用目前目錄: %s", crawler.Describe(err))
				continue
			}
			categories := parse(doc)
			store.Replace(catalog.New(categories))
			log.Printf("目錄已更新，共 %d 個類別", len(categories))
		}
	}
}
