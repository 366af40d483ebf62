package transform

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"reel-service/ddd/domain/gateway"
	"reel-service/ddd/domain/vo"
	"reel-service/pkg/config"
	"reel-service/pkg/logger"
)

// FFmpegMedia 基于本地ffmpeg/ffprobe的音频提取与剪辑
type FFmpegMedia struct {
	cfg *config.Config
}

// NewFFmpegMedia 创建ffmpeg媒体处理器
func NewFFmpegMedia(cfg *config.Config) *FFmpegMedia {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	return &FFmpegMedia{cfg: cfg}
}

// ExtractAudio 提取16kHz单声道PCM音轨，供转写服务使用
func (f *FFmpegMedia) ExtractAudio(ctx context.Context, videoPath string) (*gateway.ExtractAudioResult, error) {
	ffmpegCfg := f.cfg.Transform.FFmpeg

	duration, err := f.probeDurationSeconds(ctx, videoPath)
	if err != nil {
		return nil, vo.NewPermanentError("probe_duration", err)
	}

	audioPath := filepath.Join(ffmpegCfg.TempDir,
		strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))+".wav")
	if err := os.MkdirAll(filepath.Dir(audioPath), 0o755); err != nil {
		return nil, vo.NewTransientError("mkdir_temp", err)
	}

	args := []string{
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-y",
		audioPath,
	}
	if err := f.runFFmpeg(ctx, args); err != nil {
		return nil, err
	}

	return &gateway.ExtractAudioResult{
		AudioPath:     audioPath,
		VideoDuration: duration,
	}, nil
}

// CutClip 按时间区间重新编码剪出短视频
func (f *FFmpegMedia) CutClip(ctx context.Context, request *gateway.CutClipRequest) error {
	ffmpegCfg := f.cfg.Transform.FFmpeg

	if request.EndTime <= request.StartTime {
		return vo.NewPermanentError("cut_clip",
			fmt.Errorf("invalid clip window [%.2f, %.2f]", request.StartTime, request.EndTime))
	}
	if err := os.MkdirAll(filepath.Dir(request.OutputPath), 0o755); err != nil {
		return vo.NewTransientError("mkdir_output", err)
	}

	args := []string{
		"-i", request.SourcePath,
		"-ss", formatSeconds(request.StartTime),
		"-t", formatSeconds(request.EndTime - request.StartTime),
		"-c:v", ffmpegCfg.VideoCodec,
		"-preset", ffmpegCfg.VideoPreset,
		"-crf", strconv.Itoa(ffmpegCfg.CRF),
		"-c:a", "aac",
		"-y",
		request.OutputPath,
	}
	return f.runFFmpeg(ctx, args)
}

// runFFmpeg 执行ffmpeg命令，带配置超时
func (f *FFmpegMedia) runFFmpeg(ctx context.Context, args []string) error {
	ffmpegCfg := f.cfg.Transform.FFmpeg

	if ffmpegCfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ffmpegCfg.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, ffmpegCfg.BinaryPath, args...)
	logger.Debugf("ffmpeg command args=%s", strings.Join(cmd.Args, " "))

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return vo.NewTransientError("ffmpeg", ctx.Err())
		}
		tail := string(output)
		if len(tail) > 2000 {
			tail = tail[len(tail)-2000:]
		}
		logger.Errorf("ffmpeg failed error=%v tail_output=%s", err, tail)
		// 非零退出码通常意味着坏输入，重试无意义
		return vo.NewPermanentError("ffmpeg", fmt.Errorf("%w: %s", err, strings.TrimSpace(tail)))
	}
	return nil
}

// probeDurationSeconds 调用ffprobe获取输入时长（秒）
func (f *FFmpegMedia) probeDurationSeconds(ctx context.Context, inputPath string) (float64, error) {
	cmd := exec.CommandContext(ctx, f.cfg.Transform.FFmpeg.ProbeBinaryPath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inputPath,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}
	val, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration: %w", err)
	}
	return val, nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
