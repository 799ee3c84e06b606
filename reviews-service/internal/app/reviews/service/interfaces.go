package service

import (
	"context"
	"io"

	"reviewdeck/reviews-service/internal/app/reviews/entity"
)

type ReviewServiceInterface interface {
	AddReview(ctx context.Context, draft entity.ReviewDraft) (*entity.Review, error)
	ToggleVote(ctx context.Context, reviewID, voterID string, voteType entity.VoteType) (*entity.Review, error)
	ListVisible(ctx context.Context, voterID string, criteria entity.FilterCriteria) ([]entity.Review, error)
	GetReview(ctx context.Context, reviewID, voterID string) (*entity.Review, error)
}

type SessionServiceInterface interface {
	Draft(deviceID string) entity.DraftView
	OpenDraft(deviceID string) entity.DraftView
	UpdateDraft(deviceID string, req *entity.UpdateDraftRequest) entity.DraftView
	CancelDraft(deviceID string) entity.DraftView
	NextStep(deviceID string) (entity.DraftView, error)
	PrevStep(deviceID string) (entity.DraftView, error)
	StartRecording(ctx context.Context, deviceID string) (entity.DraftView, error)
	PushAudioChunk(ctx context.Context, deviceID string, chunk []byte) error
	StopRecording(ctx context.Context, deviceID string) (entity.DraftView, error)
	AttachImage(ctx context.Context, deviceID string, file io.Reader) (entity.DraftView, error)
	SubmitDraft(ctx context.Context, deviceID string) (*entity.Review, error)

	View(deviceID string) entity.ViewState
	ToggleExpanded(deviceID, reviewID string) entity.ViewState
	TogglePlayback(ctx context.Context, deviceID, reviewID string) (entity.ViewState, error)
	PausePlayback(deviceID string) entity.ViewState
	PlaybackEnded(deviceID, reviewID string) entity.ViewState
	OpenLightbox(ctx context.Context, deviceID, reviewID string) (entity.ViewState, error)
	CloseLightbox(deviceID string) entity.ViewState
}
