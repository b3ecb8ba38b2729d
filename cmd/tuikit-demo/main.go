// tuikit-demo 把两个控件装进一个 Bubble Tea 宿主：上方是查看
// 任意文件的缓冲区窗格，下方是带历史与文件名补全的命令行。
// 它同时演示宿主侧的职责：事件路由、弹窗归属与历史状态持久化。
package main

import (
	"os"
	"path/filepath"

	"tuikit/internal/config"
	"tuikit/internal/logger"
)

var log = logger.Named("demo")

// maxRegionBytes 缓冲窗格一次最多载入的字节数。
const maxRegionBytes = 1 << 20

func main() {
	logger.Configure()

	fs, cli := newDemoFlagSet("tuikit-demo")
	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse args: %v", err)
	}

	cfg, err := config.Load(cli.cfgPath)
	if err != nil {
		log.Warnf("failed to load config: %v", err)
	}
	cfg = config.ApplyKVOverrides(cfg, []string(cli.configOverrides))

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = logger.DefaultLogPath
	}
	if logFile, _, err := logger.SetupFile(logPath); err != nil {
		log.Warnf("failed to initialize log file: %v", err)
	} else {
		defer logFile.Close()
	}

	region, err := loadRegion(cli.filePath)
	if err != nil {
		log.Fatalf("failed to open %s: %v", cli.filePath, err)
	}

	statePath := cli.statePath
	if statePath == "" {
		statePath = defaultStatePath()
	}

	result, err := runUI(uiOptions{
		Config:      cfg,
		Region:      region,
		RegionName:  regionName(cli.filePath),
		WriteEnable: cli.writeEnable,
		Multiline:   cli.multiline,
		StatePath:   statePath,
	})
	if err != nil {
		log.Fatalf("program exit: %v", err)
	}

	if cli.writeEnable && cli.filePath != "" && result.RegionDirty {
		if err := os.WriteFile(cli.filePath, region, 0o644); err != nil {
			log.Warnf("failed to save %s: %v", cli.filePath, err)
		}
	}
}

// loadRegion 读入待查看的字节区域；未指定文件时给一段演示用样本。
func loadRegion(path string) ([]byte, error) {
	if path == "" {
		return sampleRegion(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) > maxRegionBytes {
		data = data[:maxRegionBytes]
	}
	return data, nil
}

func regionName(path string) string {
	if path == "" {
		return "(sample)"
	}
	return filepath.Base(path)
}

func sampleRegion() []byte {
	region := make([]byte, 256)
	for i := range region {
		region[i] = byte(i)
	}
	return region
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tuikit", "history.state")
}
