package main

import (
	"context"
	"flag"
	"fmt"
	"errors"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/joho/godotenv"

	"github.com/zhouzirui/exonizer/internal/config"
	"github.com/zhouzirui/exonizer/internal/logging"
	"github.com/zhouzirui/exonizer/internal/model/form"
	"github.com/zhouzirui/exonizer/internal/model/humanize"
	humanizeService "github.com/zhouzirui/exonizer/internal/service/humanize"
)

func main() {
	log := logging.GetLogger()

	if err := godotenv.Load(); err != nil {
		log.Warnf("无法加载 .env，改用系统环境变量: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	text := flag.String("text", "", "待转换的文本")
	file := flag.String("file", "", "从文件读取待转换的文本")
	copyOut := flag.Bool("copy", false, "将结果复制到系统剪贴板")
	timeout := flag.Duration("timeout", 0, "请求超时时间，0 表示不限制")
	flag.Parse()

	input, err := readInput(*text, *file)
	if errors.Is(err, errNoInput) {
		flag.Usage()
		log.Fatal("请通过 -text 或 -file 提供待转换文本")
	}
	if err != nil {
		log.Fatalf("读取文件失败: %v", err)
	}

	var state form.State
	if !state.Input(input) {
		log.Fatalf("文本超过 %d 个字符限制 (当前 %d)", form.CharacterLimit, form.Length(input))
	}

	sent, err := state.BeginSubmit()
	if err != nil {
		log.Fatalf("无法提交: %v", err)
	}

	client := humanizeService.NewClient(cfg.Humanize)
	ctx, cancel := requestContext(context.Background(), *timeout)
	defer cancel()

	log.Infof("开始调用 humanize: url=%s length=%d", client.URL(), form.Length(sent))
	result := client.Humanize(ctx, sent)
	state.Resolve(result)

	switch result.Kind {
	case humanize.HTTPError:
		log.Fatalf("humanize 返回错误状态码: %d", result.StatusCode)
	case humanize.TransportError:
		log.Fatalf("%s (%v)", state.TakeAlert(), result.Err)
	}

	fmt.Println(state.Copy())

	if *copyOut {
		if err := clipboard.WriteAll(state.Copy()); err != nil {
			log.Fatalf("写入剪贴板失败: %v", err)
		}
		log.Infof("已复制 %d 个字符到剪贴板", form.Length(state.Copy()))
	}
}

var errNoInput = errors.New("no input text")

// readInput 返回 -file 的内容（若指定），否则返回 -text。只有空字符串视为缺失。
func readInput(text, file string) (string, error) {
	input := text
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		input = string(data)
	}
	if input == "" {
		return "", errNoInput
	}
	return input, nil
}

// requestContext 仅在 timeout > 0 时附加超时。
func requestContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
