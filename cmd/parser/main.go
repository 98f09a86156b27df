package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"coolpc/internal/cache"
	"coolpc/internal/config"
	"coolpc/internal/crawler"
	"coolpc/internal/db"
	"coolpc/internal/export"
	"coolpc/internal/ingest"
	"coolpc/internal/model"
	"coolpc/internal/observability"
	"coolpc/internal/parser"
	"coolpc/internal/repository"
)

// go run cmd/parser/main.go -download -json coolpc.json -summary
// go run cmd/parser/main.go -csv coolpc.csv -sqlite coolpc.db evaluate.html
// go run cmd/parser/main.go -pending -workers 4
func main() {
	download := flag.Bool("download", false, "先從原價屋下載最新的 evaluate.html")
	jsonOut := flag.String("json", "", "輸出 JSON 檔案")
	csvOut := flag.String("csv", "", "輸出 CSV 檔案")
	sqliteOut := flag.String("sqlite", "", "輸出 SQLite 資料庫")
	summary := flag.Bool("summary", false, "顯示摘要")
	store := flag.Bool("store", false, "將解析結果存入 Postgres (DATABASE_URL)")
	fromDB := flag.Bool("from-db", false, "從 Postgres 讀取最新的原始頁面")
	pending := flag.Bool("pending", false, "解析資料庫中所有尚未處理的原始頁面")
	workers := flag.Int("workers", ingest.DefaultWorkers, "-pending 使用的 worker 數量")
	metrics := flag.Bool("metrics", false, "啟動 Prometheus metrics")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	if *metrics {
		observability.Start(cfg.MetricsPort)
	}

	if *pending {
		runPending(ctx, cfg, *workers)
		return
	}

	input := "evaluate.html"
	if flag.NArg() > 0 {
		input = flag.Arg(0)
	}

	var (
		doc       string
		sourceURL = cfg.SourceURL
		rawRepo   *repository.RawRepository
		rawID     string
	)
	switch {
	case *fromDB:
		rawRepo = openRawRepository(cfg)
		d, err := rawRepo.Latest(cfg.SourceURL)
		if err != nil {
			log.Fatalf("無法讀取原始頁面: %v", err)
		}
		doc, rawID, sourceURL = d.Content, d.ID, d.SourceURL
		log.Printf("使用資料庫中的原始頁面 %s", d.ID)
	default:
		if *download {
			client := newClient(cfg)
			if err := client.Download(ctx, input); err != nil {
				fmt.Fprintln(os.Stderr, crawler.Describe(err))
				os.Exit(1)
			}
		}
		b, err := os.ReadFile(input)
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "找不到檔案: %s\n", input)
			fmt.Fprintln(os.Stderr, "請使用 -download 參數下載最新資料，或指定已存在的 HTML 檔案")
			os.Exit(1)
		}
		if err != nil {
			log.Fatalf("讀取檔案失敗: %v", err)
		}
		doc = string(b)
		log.Printf("解析 %s", input)
	}

	categories := parser.Parse(doc)
	observability.RecordParse(categories)
	log.Printf("解析完成，共 %d 個類別", len(categories))

	wrote := false
	if *jsonOut != "" {
		writeFile(*jsonOut, categories, export.WriteJSON)
		wrote = true
	}
	if *csvOut != "" {
		writeFile(*csvOut, categories, export.WriteCSV)
		wrote = true
	}
	if *sqliteOut != "" {
		if err := export.WriteSQLite(*sqliteOut, categories); err != nil {
			log.Fatalf("寫入 SQLite 失敗: %v", err)
		}
		log.Printf("已輸出 SQLite: %s", *sqliteOut)
		wrote = true
	}
	if *store {
		storeSnapshot(ctx, cfg, sourceURL, categories)
		wrote = true
	}
	if rawRepo != nil && rawID != "" {
		if err := rawRepo.MarkParsed(rawID); err != nil {
			log.Printf("標記原始頁面失敗: %v", err)
		}
	}
	if *summary {
		if err := export.WriteSummary(os.Stdout, categories); err != nil {
			log.Fatalf("輸出摘要失敗: %v", err)
		}
		wrote = true
	}

	if !wrote {
		fmt.Println("請指定輸出格式: -json, -csv, -sqlite, -store 或 -summary")
	}
}

func newClient(cfg *config.Config) *crawler.Client {
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
			client.Cache = c
		}
	}
	return client
}

func openRawRepository(cfg *config.Config) *repository.RawRepository {
	if cfg.DatabaseURL == "" {
		log.Fatalf("未設定 DATABASE_URL")
	}
	conn, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("無法連線資料庫: %v", err)
	}
	return &repository.RawRepository{DB: conn}
}

func storeSnapshot(ctx context.Context, cfg *config.Config, sourceURL string, categories []model.Category) {
	if cfg.DatabaseURL == "" {
		log.Fatalf("未設定 DATABASE_URL")
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("無法連線資料庫: %v", err)
	}
	defer pool.Close()

	repo := &repository.ProductRepository{DB: pool}
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("建立資料表失敗: %v", err)
	}
	id, err := repo.SaveSnapshot(ctx, sourceURL, categories)
	if err != nil {
		log.Fatalf("儲存快照失敗: %v", err)
	}
	log.Printf("已儲存快照 %s", id)
}

func runPending(ctx context.Context, cfg *config.Config, workers int) {
	rawRepo := openRawRepository(cfg)
	defer rawRepo.DB.Close()

	docs, err := rawRepo.Pending()
	if err != nil {
		log.Fatalf("讀取待處理頁面失敗: %v", err)
	}
	log.Printf("共有 %d 個待處理頁面", len(docs))
	if len(docs) == 0 {
		return
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("無法連線資料庫: %v", err)
	}
	defer pool.Close()

	products := &repository.ProductRepository{DB: pool}
	if err := products.EnsureSchema(ctx); err != nil {
		log.Fatalf("建立資料表失敗: %v", err)
	}

	n := ingest.RunWorkers(ctx, docs, parser.New(), products, rawRepo, workers)
	log.Printf("處理完成: %d/%d", n, len(docs))
}

func writeFile(path string, categories []model.Category, write func(io.Writer, []model.Category) error) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("無法建立檔案 %s: %v", path, err)
	}
	if err := write(f, categories); err != nil {
		f.Close()
		log.Fatalf("寫入 %s 失敗: %v", path, err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("寫入 %s 失敗: %v", path, err)
	}
	log.Printf("已輸出: %s", path)
}
