package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"coolpc/internal/cache"
	"coolpc/internal/config"
	"coolpc/internal/crawler"
	"coolpc/internal/db"
	"coolpc/internal/model"
	"coolpc/internal/repository"
)

// go run cmd/crawler/main.go -out evaluate.html
// DATABASE_URL=postgres://... go run cmd/crawler/main.go -out evaluate.html
func main() {
	out := flag.String("out", "evaluate.html", "輸出檔案")
	noCache := flag.Bool("no-cache", false, "略過 Redis 快取")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	client := &crawler.Client{
		URL:       cfg.SourceURL,
		UserAgent: cfg.UserAgent,
		Encoding:  cfg.SourceEncoding,
		Timeout:   cfg.FetchTimeout,
	}
	if cfg.RedisURL != "" && !*noCache {
		c, err := cache.New(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			log.Printf("Redis 無法使用，略過快取: %v", err)
		} else {
			defer c.Close()
			client.Cache = c
		}
	}

	doc, err := client.FetchDocument(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, crawler.Describe(err))
		os.Exit(1)
	}
	if err := os.WriteFile(*out, []byte(doc), 0o644); err != nil {
		log.Fatalf("寫入 %s 失敗: %v", *out, err)
	}
	log.Printf("已下載 %s (%d bytes)", *out, len(doc))

	if cfg.DatabaseURL == "" {
		return
	}
	conn, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("無法連線資料庫: %v", err)
	}
	defer conn.Close()

	repo := &repository.RawRepository{DB: conn}
	if err := repo.EnsureSchema(); err != nil {
		log.Fatalf("建立資料表失敗: %v", err)
	}
	d := &model.RawDocument{
		SourceURL: cfg.SourceURL,
		Content:   doc,
		FetchedAt: time.Now().Unix(),
	}
	if err := repo.Save(d); err != nil {
		log.Fatalf("儲存原始頁面失敗: %v", err)
	}
	log.Println("Crawler 完成")
}
