package service

import (
	"Liveboard/internal/api/dto"
	"Liveboard/internal/model"
	"Liveboard/internal/pkg/consts"
	"Liveboard/internal/pkg/hub"
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore 内存存储：帖子与阅读日志共用，阅读量只从日志推导
type fakeStore struct {
	mu        sync.Mutex
	boards    map[uint64]model.Board
	nextID    uint64
	viewLogs  []uint64
	createErr error
	appendErr error
	lastLimit int
}

func newFakeStore() *fakeStore {
	return &fakeStore{boards: make(map[uint64]model.Board)}
}

func (f *fakeStore) viewCount(boardID uint64) int64 {
	var count int64
	for _, id := range f.viewLogs {
		if id == boardID {
			count++
		}
	}
	return count
}

type fakeBoardRepo struct {
	store *fakeStore
}

func (f *fakeBoardRepo) CreateBoard(_ context.Context, board *model.Board) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if f.store.createErr != nil {
		return f.store.createErr
	}
	f.store.nextID++
	board.ID = f.store.nextID
	if board.CreatedAt.IsZero() {
		board.CreatedAt = time.Now()
	}
	board.UpdatedAt = board.CreatedAt
	f.store.boards[board.ID] = *board
	return nil
}

func (f *fakeBoardRepo) GetBoardWithViewCount(_ context.Context, id uint64) (*model.Board, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	board, ok := f.store.boards[id]
	if !ok {
		return nil, nil
	}
	board.ViewCount = f.store.viewCount(id)
	return &board, nil
}

func (f *fakeBoardRepo) GetBoardsWithViewCount(_ context.Context, limit, offset int) ([]*model.Board, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.lastLimit = limit

	all := make([]model.Board, 0, len(f.store.boards))
	for _, board := range f.store.boards {
		board.ViewCount = f.store.viewCount(board.ID)
		all = append(all, board)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	if offset >= len(all) {
		return []*model.Board{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	out := make([]*model.Board, 0, end-offset)
	for i := offset; i < end; i++ {
		board := all[i]
		out = append(out, &board)
	}
	return out, nil
}

func (f *fakeBoardRepo) UpdateBoard(_ context.Context, board *model.Board) (int64, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	stored, ok := f.store.boards[board.ID]
	if !ok {
		return 0, nil
	}
	stored.Title = board.Title
	stored.Content = board.Content
	stored.Modifier = board.Modifier
	stored.UpdatedAt = time.Now()
	f.store.boards[board.ID] = stored
	return 1, nil
}

func (f *fakeBoardRepo) DeleteBoard(_ context.Context, id uint64) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	delete(f.store.boards, id)
	return nil
}

func (f *fakeBoardRepo) CountBoards(_ context.Context) (int64, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return int64(len(f.store.boards)), nil
}

type fakeViewLogRepo struct {
	store *fakeStore
}

func (f *fakeViewLogRepo) Append(_ context.Context, boardID uint64) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if f.store.appendErr != nil {
		return f.store.appendErr
	}
	f.store.viewLogs = append(f.store.viewLogs, boardID)
	return nil
}

func (f *fakeViewLogRepo) CountByBoardID(_ context.Context, boardID uint64) (int64, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.viewCount(boardID), nil
}

func (f *fakeViewLogRepo) DeleteOrphans(_ context.Context) (int64, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	kept := f.store.viewLogs[:0]
	var deleted int64
	for _, id := range f.store.viewLogs {
		if _, ok := f.store.boards[id]; ok {
			kept = append(kept, id)
		} else {
			deleted++
		}
	}
	f.store.viewLogs = kept
	return deleted, nil
}

func (f *fakeViewLogRepo) logCount(boardID uint64) int64 {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.viewCount(boardID)
}

func newBoardServiceForTest(store *fakeStore) (BoardService, *hub.Hub[dto.BoardDTO]) {
	boardHub := hub.New[dto.BoardDTO](16, true)
	viewLogSvc := NewViewLogService(&fakeViewLogRepo{store: store})
	return NewBoardService(&fakeBoardRepo{store: store}, viewLogSvc, boardHub), boardHub
}

func seedBoards(t *testing.T, svc BoardService, n int) []*dto.BoardDTO {
	t.Helper()
	out := make([]*dto.BoardDTO, 0, n)
	base := &dto.BoardBaseDTO{Content: "内容"}
	for i := 0; i < n; i++ {
		base.Title = "帖子" + string(rune('A'+i))
		board, err := svc.CreateBoard(context.Background(), "tester", base)
		require.NoError(t, err)
		out = append(out, board)
	}
	return out
}

func TestGetBoardsPaginationDeterminism(t *testing.T) {
	store := newFakeStore()
	svc, h := newBoardServiceForTest(store)
	defer h.Close()

	seedBoards(t, svc, 7)

	first, err := svc.GetBoards(context.Background(), 0, 5)
	require.NoError(t, err)
	require.Len(t, first, 5)

	// 无写入介入时重复调用结果一致
	again, err := svc.GetBoards(context.Background(), 0, 5)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	second, err := svc.GetBoards(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Len(t, second, 2)

	// 最新的帖子排在最前
	assert.Greater(t, first[0].ID, first[1].ID)
}

func TestGetBoardsSizeZeroAndOutOfRange(t *testing.T) {
	store := newFakeStore()
	svc, h := newBoardServiceForTest(store)
	defer h.Close()

	seedBoards(t, svc, 3)

	empty, err := svc.GetBoards(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	// 越界页返回空列表而非错误
	page, err := svc.GetBoards(context.Background(), 99, 5)
	require.NoError(t, err)
	assert.Empty(t, page)

	_, err = svc.GetBoards(context.Background(), -1, 5)
	assert.ErrorIs(t, err, ErrParamInvalid)
}

func TestGetBoardsSizeClamped(t *testing.T) {
	store := newFakeStore()
	svc, h := newBoardServiceForTest(store)
	defer h.Close()

	seedBoards(t, svc, 3)

	boards, err := svc.GetBoards(context.Background(), 0, 100000)
	require.NoError(t, err)
	assert.Len(t, boards, 3)
	assert.Equal(t, consts.MaxPageSize, store.lastLimit)
}

func TestCreateBoardPublishesToHub(t *testing.T) {
	store := newFakeStore()
	svc, h := newBoardServiceForTest(store)
	defer h.Close()

	sub := h.Subscribe(context.Background())
	defer sub.Cancel()

	created, err := svc.CreateBoard(context.Background(), "管理员", &dto.BoardBaseDTO{Title: "新帖", Content: "正文"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Equal(t, int64(0), created.ViewCount)
	assert.Equal(t, "管理员", created.Registrant)

	select {
	case got := <-sub.C():
		assert.Equal(t, *created, got)
	case <-time.After(time.Second):
		t.Fatal("expected the created board to be broadcast")
	}
}

func TestCreateBoardSucceedsWithoutSubscribers(t *testing.T) {
	store := newFakeStore()
	svc, h := newBoardServiceForTest(store)
	defer h.Close()

	created, err := svc.CreateBoard(context.Background(), "tester", &dto.BoardBaseDTO{Title: "无人订阅", Content: "正文"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
}

func TestCreateBoardSucceedsWhenHubClosed(t *testing.T) {
	store := newFakeStore()
	svc, h := newBoardServiceForTest(store)

	// 广播不可用也不影响已成功的写入
	h.Close()

	created, err := svc.CreateBoard(context.Background(), "tester", &dto.BoardBaseDTO{Title: "广播关闭", Content: "正文"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
}

func TestCreateBoardPersistenceFailure(t *testing.T) {
	store := newFakeStore()
	svc, h := newBoardServiceForTest(store)
	defer h.Close()

	sub := h.Subscribe(context.Background())
	defer sub.Cancel()

	store.createErr = errors.New("db down")
	_, err := svc.CreateBoard(context.Background(), "tester", &dto.BoardBaseDTO{Title: "x", Content: "y"})
	require.Error(t, err)

	// 写入失败时绝不广播
	select {
	case got := <-sub.C():
		t.Fatalf("unexpected broadcast after failed create: %v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestGetBoardByIDRecordsViews(t *testing.T) {
	store := newFakeStore()
	svc, h := newBoardServiceForTest(store)
	defer h.Close()

	created := seedBoards(t, svc, 1)[0]
	viewLogRepo := &fakeViewLogRepo{store: store}

	for i := 0; i < 3; i++ {
		_, err := svc.GetBoardByID(context.Background(), created.ID)
		require.NoError(t, err)
	}

	// 记账是异步的，等待追加落地
	require.Eventually(t, func() bool {
		return viewLogRepo.logCount(created.ID) == 3
	}, time.Second, 5*time.Millisecond)

	boards, err := svc.GetBoards(context.Background(), 0, 5)
	require.NoError(t, err)
	require.Len(t, boards, 1)
	assert.Equal(t, int64(3), boards[0].ViewCount)
}

func TestGetBoardByIDNotFound(t *testing.T) {
	store := newFakeStore()
	svc, h := newBoardServiceForTest(store)
	defer h.Close()

	_, err := svc.GetBoardByID(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrBoardNotFound)

	// 未命中不产生阅读日志
	time.Sleep(50 * time.Millisecond)
	viewLogRepo := &fakeViewLogRepo{store: store}
	assert.Zero(t, viewLogRepo.logCount(9999))
}

func TestViewLogFailureDoesNotFailRead(t *testing.T) {
	store := newFakeStore()
	svc, h := newBoardServiceForTest(store)
	defer h.Close()

	created := seedBoards(t, svc, 1)[0]
	store.appendErr = errors.New("log table unavailable")

	board, err := svc.GetBoardByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, board.ID)
}

func TestDeleteBoardIdempotent(t *testing.T) {
	store := newFakeStore()
	svc, h := newBoardServiceForTest(store)
	defer h.Close()

	created := seedBoards(t, svc, 1)[0]

	require.NoError(t, svc.DeleteBoard(context.Background(), created.ID))
	// 再次删除同样成功
	require.NoError(t, svc.DeleteBoard(context.Background(), created.ID))
	// 删除从未存在的 id 也不是错误
	require.NoError(t, svc.DeleteBoard(context.Background(), 424242))
}

func TestUpdateBoardNotFound(t *testing.T) {
	store := newFakeStore()
	svc, h := newBoardServiceForTest(store)
	defer h.Close()

	_, err := svc.UpdateBoard(context.Background(), "tester", 9999, &dto.BoardBaseDTO{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, ErrBoardNotFound)
}

func TestStreamBoardsReplayThenLive(t *testing.T) {
	store := newFakeStore()
	svc, h := newBoardServiceForTest(store)
	defer h.Close()

	seeded := seedBoards(t, svc, 3)
	latest := seeded[len(seeded)-1]

	sub := svc.StreamBoards(context.Background())
	defer sub.Cancel()

	// 迟到订阅者先收到最近一次广播的帖子
	select {
	case got := <-sub.C():
		assert.Equal(t, latest.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("expected replay of the latest broadcast board")
	}

	created, err := svc.CreateBoard(context.Background(), "tester", &dto.BoardBaseDTO{Title: "后续", Content: "正文"})
	require.NoError(t, err)

	select {
	case got := <-sub.C():
		assert.Equal(t, created.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("expected live delivery after replay")
	}
}
