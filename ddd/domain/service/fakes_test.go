package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"reel-service/ddd/domain/entity"
	"reel-service/ddd/domain/gateway"
	"reel-service/ddd/domain/repo"
	"reel-service/ddd/domain/vo"
	"reel-service/pkg/config"
	"reel-service/pkg/errno"
)

// fakeStore 内存持久化，模拟数据库行为供编排测试使用
type fakeStore struct {
	mu          sync.Mutex
	videos      map[string]*entity.VideoEntity
	statuses    map[string]*entity.ProcessingStatusEntity
	transcripts map[string]*entity.TranscriptEntity
	segments    map[string][]*entity.ImportantSegmentEntity
	reels       map[string]*entity.ReelEntity
	nextID      uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		videos:      make(map[string]*entity.VideoEntity),
		statuses:    make(map[string]*entity.ProcessingStatusEntity),
		transcripts: make(map[string]*entity.TranscriptEntity),
		segments:    make(map[string][]*entity.ImportantSegmentEntity),
		reels:       make(map[string]*entity.ReelEntity),
	}
}

func (s *fakeStore) allocID() uint64 {
	s.nextID++
	return s.nextID
}

// copyStatus 模拟从数据库重新加载一行
func copyStatus(src *entity.ProcessingStatusEntity) *entity.ProcessingStatusEntity {
	if src == nil {
		return nil
	}
	return entity.NewProcessingStatusEntityWithDetails(
		src.ID(), src.VideoUUID(), src.CurrentStage(), src.Progress(),
		src.Message(), src.AudioLocator(), src.CreatedAt(), src.UpdatedAt(),
	)
}

type fakeVideoRepo struct{ store *fakeStore }

func (r *fakeVideoRepo) CreateVideo(ctx context.Context, video *entity.VideoEntity) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	video.SetID(r.store.allocID())
	r.store.videos[video.VideoUUID()] = video
	return nil
}

func (r *fakeVideoRepo) GetVideoByUUID(ctx context.Context, videoUUID string) (*entity.VideoEntity, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.videos[videoUUID], nil
}

func (r *fakeVideoRepo) GetVideosByUserUUID(ctx context.Context, userUUID string, limit, offset int) ([]*entity.VideoEntity, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.VideoEntity
	for _, v := range r.store.videos {
		if v.UserUUID() == userUUID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVideoRepo) UpdateVideoStatus(ctx context.Context, videoUUID string, status vo.VideoStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	v, ok := r.store.videos[videoUUID]
	if !ok {
		return errno.NewBizError(errno.ErrVideoNotFound, fmt.Errorf("video %s not found", videoUUID))
	}
	v.SetStatus(status)
	return nil
}

func (r *fakeVideoRepo) UpdateVideoDuration(ctx context.Context, videoUUID string, durationSeconds float64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	v, ok := r.store.videos[videoUUID]
	if !ok {
		return errno.NewBizError(errno.ErrVideoNotFound, fmt.Errorf("video %s not found", videoUUID))
	}
	v.SetDurationSeconds(durationSeconds)
	return nil
}

type fakePipelineRepo struct{ store *fakeStore }

func (r *fakePipelineRepo) CreateStatus(ctx context.Context, status *entity.ProcessingStatusEntity) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	status.SetID(r.store.allocID())
	r.store.statuses[status.VideoUUID()] = copyStatus(status)
	return nil
}

func (r *fakePipelineRepo) GetStatus(ctx context.Context, videoUUID string) (*entity.ProcessingStatusEntity, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return copyStatus(r.store.statuses[videoUUID]), nil
}

func (r *fakePipelineRepo) AdvanceStage(ctx context.Context, videoUUID string, next vo.PipelineStage, message string, outputs *repo.StageOutputs) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	status, ok := r.store.statuses[videoUUID]
	if !ok {
		return errno.NewBizError(errno.ErrStatusNotFound, fmt.Errorf("status for video %s not found", videoUUID))
	}
	if err := status.AdvanceTo(next, message); err != nil {
		return err
	}

	if outputs != nil {
		if outputs.AudioLocator != "" {
			status.SetAudioLocator(outputs.AudioLocator)
		}
		if outputs.ClearAudioLocator {
			status.SetAudioLocator("")
		}
		if outputs.VideoDuration > 0 {
			if v, ok := r.store.videos[videoUUID]; ok {
				v.SetDurationSeconds(outputs.VideoDuration)
			}
		}
		if outputs.Transcript != nil {
			outputs.Transcript.SetID(r.store.allocID())
			r.store.transcripts[videoUUID] = outputs.Transcript
		}
		if len(outputs.Segments) > 0 {
			for _, seg := range outputs.Segments {
				seg.SetID(r.store.allocID())
			}
			r.store.segments[videoUUID] = outputs.Segments
		}
	}
	return nil
}

func (r *fakePipelineRepo) MarkFailed(ctx context.Context, videoUUID string, message string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	status, ok := r.store.statuses[videoUUID]
	if !ok {
		return errno.NewBizError(errno.ErrStatusNotFound, fmt.Errorf("status for video %s not found", videoUUID))
	}
	return status.MarkFailed(message)
}

func (r *fakePipelineRepo) UpdateProgress(ctx context.Context, videoUUID string, progress int, message string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	status, ok := r.store.statuses[videoUUID]
	if !ok {
		return errno.NewBizError(errno.ErrStatusNotFound, fmt.Errorf("status for video %s not found", videoUUID))
	}
	status.UpdateProgress(progress, message)
	return nil
}

func (r *fakePipelineRepo) ListByStages(ctx context.Context, stages []vo.PipelineStage) ([]*entity.ProcessingStatusEntity, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.ProcessingStatusEntity
	for _, st := range r.store.statuses {
		for _, stage := range stages {
			if st.CurrentStage() == stage {
				out = append(out, copyStatus(st))
				break
			}
		}
	}
	return out, nil
}

func (r *fakePipelineRepo) GetTranscript(ctx context.Context, videoUUID string) (*entity.TranscriptEntity, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.transcripts[videoUUID], nil
}

func (r *fakePipelineRepo) ListImportantSegments(ctx context.Context, videoUUID string) ([]*entity.ImportantSegmentEntity, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.segments[videoUUID], nil
}

type fakeReelRepo struct {
	store *fakeStore

	// updateFn 非空时在落库前调用，可注入失败
	updateFn func(reel *entity.ReelEntity) error
}

func (r *fakeReelRepo) CreateReel(ctx context.Context, reel *entity.ReelEntity) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	reel.SetID(r.store.allocID())
	r.store.reels[reel.ReelUUID()] = reel
	return nil
}

func (r *fakeReelRepo) UpdateReel(ctx context.Context, reel *entity.ReelEntity) error {
	if r.updateFn != nil {
		if err := r.updateFn(reel); err != nil {
			return err
		}
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.reels[reel.ReelUUID()] = reel
	return nil
}

func (r *fakeReelRepo) GetReelByUUID(ctx context.Context, reelUUID string) (*entity.ReelEntity, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.reels[reelUUID], nil
}

// ListReelsByVideoUUID 与真实DAO一致，按创建时间倒序返回
func (r *fakeReelRepo) ListReelsByVideoUUID(ctx context.Context, videoUUID string) ([]*entity.ReelEntity, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.ReelEntity
	for _, reel := range r.store.reels {
		if reel.VideoUUID() == videoUUID {
			out = append(out, reel)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].CreatedAt().After(out[j].CreatedAt())
		}
		return out[i].ID() > out[j].ID()
	})
	return out, nil
}

func (r *fakeReelRepo) GetReelBySegmentID(ctx context.Context, segmentID uint64) (*entity.ReelEntity, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, reel := range r.store.reels {
		if reel.SegmentID() == segmentID {
			return reel, nil
		}
	}
	return nil, nil
}

// fakeStorage 把下载模拟为写占位文件，上传直接返回对象键
type fakeStorage struct {
	mu      sync.Mutex
	uploads []string
}

func (s *fakeStorage) Download(ctx context.Context, objectKey, localPath string) error {
	return os.WriteFile(localPath, []byte("media"), 0o644)
}

func (s *fakeStorage) Upload(ctx context.Context, localPath, objectKey, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, objectKey)
	return objectKey, nil
}

func (s *fakeStorage) Remove(ctx context.Context, objectKey string) error {
	return nil
}

// fakeTransform 各操作均可替换，默认全部成功
type fakeTransform struct {
	mu              sync.Mutex
	extractCalls    int
	transcribeCalls int
	scoreCalls      int
	cutCalls        int

	tempDir      string
	extractFn    func() (*gateway.ExtractAudioResult, error)
	transcribeFn func() (*gateway.TranscribeResult, error)
	scoreFn      func(segments []vo.TranscriptSegment) ([]*gateway.ScoredSegment, error)
	cutFn        func(req *gateway.CutClipRequest) error
}

func (f *fakeTransform) ExtractAudio(ctx context.Context, videoPath string) (*gateway.ExtractAudioResult, error) {
	f.mu.Lock()
	f.extractCalls++
	fn := f.extractFn
	f.mu.Unlock()
	if fn != nil {
		return fn()
	}
	audioPath := filepath.Join(f.tempDir, fmt.Sprintf("audio_%d.wav", time.Now().UnixNano()))
	if err := os.WriteFile(audioPath, []byte("wav"), 0o644); err != nil {
		return nil, err
	}
	return &gateway.ExtractAudioResult{AudioPath: audioPath, VideoDuration: 120}, nil
}

func (f *fakeTransform) Transcribe(ctx context.Context, audioPath string) (*gateway.TranscribeResult, error) {
	f.mu.Lock()
	f.transcribeCalls++
	fn := f.transcribeFn
	f.mu.Unlock()
	if fn != nil {
		return fn()
	}
	return &gateway.TranscribeResult{
		FullText: "hello world this matters",
		Language: "en",
		Segments: []vo.TranscriptSegment{
			{Start: 0, End: 10, Text: "hello world", Confidence: 0.9},
			{Start: 10, End: 25, Text: "this matters", Confidence: 0.8},
		},
	}, nil
}

func (f *fakeTransform) ScoreSegments(ctx context.Context, segments []vo.TranscriptSegment) ([]*gateway.ScoredSegment, error) {
	f.mu.Lock()
	f.scoreCalls++
	fn := f.scoreFn
	f.mu.Unlock()
	if fn != nil {
		return fn(segments)
	}
	scored := make([]*gateway.ScoredSegment, 0, len(segments))
	for i, seg := range segments {
		scored = append(scored, &gateway.ScoredSegment{
			StartTime: seg.Start,
			EndTime:   seg.End,
			Score:     0.5 + float64(i)*0.1,
			Reason:    "test",
			Text:      seg.Text,
		})
	}
	return scored, nil
}

func (f *fakeTransform) CutClip(ctx context.Context, req *gateway.CutClipRequest) error {
	f.mu.Lock()
	f.cutCalls++
	fn := f.cutFn
	f.mu.Unlock()
	if fn != nil {
		return fn(req)
	}
	return os.WriteFile(req.OutputPath, []byte("mp4"), 0o644)
}

// fakeNotifier 只记录广播出去的快照
type fakeNotifier struct {
	mu      sync.Mutex
	updates []*gateway.StatusUpdate
}

func (n *fakeNotifier) Publish(ctx context.Context, update *gateway.StatusUpdate) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updates = append(n.updates, update)
	return nil
}

func (n *fakeNotifier) Subscribe(ctx context.Context, videoUUID string) (gateway.Subscription, error) {
	return nil, fmt.Errorf("not supported in fake")
}

func (n *fakeNotifier) Close() error {
	return nil
}

func (n *fakeNotifier) stages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.updates))
	for _, u := range n.updates {
		out = append(out, u.Stage)
	}
	return out
}

type fakeDispatcher struct {
	mu         sync.Mutex
	dispatched []string
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, videoUUID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dispatched = append(d.dispatched, videoUUID)
	return nil
}

// pipelineFixture 一套完整的编排测试环境
type pipelineFixture struct {
	store        *fakeStore
	videoRepo    *fakeVideoRepo
	pipelineRepo *fakePipelineRepo
	reelRepo     *fakeReelRepo
	storage      *fakeStorage
	transform    *fakeTransform
	notifier     *fakeNotifier
	cfg          *config.Config
	orchestrator *orchestratorServiceImpl
}

func newPipelineFixture(tempDir string) *pipelineFixture {
	store := newFakeStore()
	cfg := &config.Config{}
	cfg.Pipeline.MaxRetries = 2
	cfg.Pipeline.RetryBackoff = time.Millisecond
	cfg.Pipeline.ReelCount = 3
	cfg.Pipeline.ReelDuration = 30
	cfg.Pipeline.ReelPadding = 2
	cfg.Pipeline.ReelParallelism = 2
	cfg.Transform.FFmpeg.TempDir = tempDir

	f := &pipelineFixture{
		store:        store,
		videoRepo:    &fakeVideoRepo{store: store},
		pipelineRepo: &fakePipelineRepo{store: store},
		reelRepo:     &fakeReelRepo{store: store},
		storage:      &fakeStorage{},
		transform:    &fakeTransform{tempDir: tempDir},
		notifier:     &fakeNotifier{},
		cfg:          cfg,
	}
	stageService := NewStageService(f.pipelineRepo, f.reelRepo, f.transform, f.storage, cfg)
	f.orchestrator = NewOrchestratorService(f.videoRepo, f.pipelineRepo, stageService, f.notifier)
	return f
}

// seedVideo 建视频和初始状态
func (f *pipelineFixture) seedVideo(videoUUID string) *entity.VideoEntity {
	video := entity.NewVideoEntity(videoUUID, "user-1", "My Talk", "videos/"+videoUUID+".mp4")
	_ = f.videoRepo.CreateVideo(context.Background(), video)
	_ = f.pipelineRepo.CreateStatus(context.Background(), entity.NewProcessingStatusEntity(videoUUID))
	return video
}
