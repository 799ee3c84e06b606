package entity

// CreateReviewRequest - отправка плоской формы
type CreateReviewRequest struct {
	Author      string `json:"author" validate:"max=100"`
	ProductName string `json:"product_name" validate:"max=200"`
	Category    string `json:"category" validate:"max=50"`
	Rating      int    `json:"rating"`
	Content     string `json:"content" validate:"max=5000"`
	AudioURL    string `json:"audio_url" validate:"omitempty,max=2048"`
	ImageURL    string `json:"image_url" validate:"omitempty,max=2048"`
}

func (r CreateReviewRequest) Draft() ReviewDraft {
	return ReviewDraft{
		Author:      r.Author,
		ProductName: r.ProductName,
		Category:    Category(r.Category),
		Rating:      r.Rating,
		Content:     r.Content,
		AudioURL:    r.AudioURL,
		ImageURL:    r.ImageURL,
	}
}

// VoteRequest - голос за отзыв
type VoteRequest struct {
	VoteType string `json:"vote_type" validate:"required"`
}

// ListReviewsQuery - параметры фильтра из query string
type ListReviewsQuery struct {
	Search   string `form:"search" json:"search" validate:"max=200"`
	Category string `form:"category" json:"category" validate:"max=50"`
	Rating   string `form:"rating" json:"rating" validate:"max=3"`
}

// UpdateDraftRequest - частичное обновление черновика, nil поля не трогаются
type UpdateDraftRequest struct {
	Author      *string `json:"author" validate:"omitempty,max=100"`
	ProductName *string `json:"product_name" validate:"omitempty,max=200"`
	Category    *string `json:"category" validate:"omitempty,max=50"`
	Rating      *int    `json:"rating" validate:"omitempty,min=0,max=5"`
	Content     *string `json:"content" validate:"omitempty,max=5000"`
}

// DraftView - снимок черновика и шага мастера
type DraftView struct {
	Draft        ReviewDraft `json:"draft"`
	Step         string      `json:"step"`
	StepIndex    int         `json:"step_index"`
	CanAdvance   bool        `json:"can_advance"`
	Recording    bool        `json:"recording"`
	AudioPending bool        `json:"audio_pending"`
	AudioError   string      `json:"audio_error,omitempty"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ReviewListResponse - ответ со списком отзывов
type ReviewListResponse struct {
	Reviews []Review `json:"reviews"`
	Total   int      `json:"total"`
}

type CategoriesResponse struct {
	Categories []Category `json:"categories"`
}
