// gen 下载 easyocr 官方发布的模型权重并写入 weights 目录, 用于 go:embed.
//
//	go generate ./internal/assets
//
// 权重以 Git LFS 跟踪, 提交后仓库中保存的是 LFS 指针文件.
package main

import (
	"archive/zip"
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/getcharzp/go-easyocr/internal/util"
	"github.com/rs/zerolog"
)

// model 发布地址与校验值, 与 easyocr/config.py 保持一致
type model struct {
	FileName string
	URL      string
	MD5      string
}

var models = []model{
	{
		FileName: "craft_mlt_25k.pth",
		URL:      "https://github.com/JaidedAI/EasyOCR/releases/download/pre-v1.1.6/craft_mlt_25k.zip",
		MD5:      "2f8227d2def4037cdb3b34389dcf9ec1",
	},
	{
		FileName: "english_g2.pth",
		URL:      "https://github.com/JaidedAI/EasyOCR/releases/download/v1.3/english_g2.zip",
		MD5:      "5864788e1821be9e454ec108d61b887d",
	},
}

func main() {
	out := flag.String("out", "weights", "权重输出目录")
	force := flag.Bool("force", false, "已存在且校验通过时也重新下载")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	client := &http.Client{Timeout: 10 * time.Minute}
	for _, m := range models {
		path := filepath.Join(*out, m.FileName)
		if !*force {
			if data, err := os.ReadFile(path); err == nil && verify(data, m.MD5) == nil {
				log.Info().Str("file", path).Msg("已存在, 跳过")
				continue
			}
		}

		log.Info().Str("url", m.URL).Msg("下载中")
		archive, err := fetch(client, m.URL)
		if err != nil {
			log.Fatal().Err(err).Str("url", m.URL).Msg("下载失败")
		}
		data, err := extract(archive, m.FileName)
		if err != nil {
			log.Fatal().Err(err).Msg("解压失败")
		}
		if err := verify(data, m.MD5); err != nil {
			log.Fatal().Err(err).Str("file", m.FileName).Msg("校验失败")
		}
		if err := util.WriteFileAtomic(path, data, 0o644); err != nil {
			log.Fatal().Err(err).Msg("写入失败")
		}
		log.Info().Str("file", path).Int("bytes", len(data)).Msg("完成")
	}
}

func fetch(client *http.Client, url string) ([]byte, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// extract 从 zip 中取出名为 name 的文件
func extract(archive []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("读取 zip 失败: %w", err)
	}
	for _, f := range zr.File {
		if filepath.Base(f.Name) != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("zip 中没有 %s", name)
}

func verify(data []byte, want string) error {
	sum := md5.Sum(data)
	if got := hex.EncodeToString(sum[:]); got != want {
		return fmt.Errorf("md5 不匹配: 期望 %s, 实际 %s", want, got)
	}
	return nil
}
