package entity

// ViewState - временное состояние экрана одного устройства, не бизнес-данные
type ViewState struct {
	ExpandedReviewID   string `json:"expanded_review_id,omitempty"`
	CurrentlyPlayingID string `json:"currently_playing_id,omitempty"`
	LightboxImage      string `json:"lightbox_image,omitempty"`
}

// ToggleExpanded раскрывает отзыв; повторный вызов для того же id сворачивает его
func (v *ViewState) ToggleExpanded(reviewID string) {
	if v.ExpandedReviewID == reviewID {
		v.ExpandedReviewID = ""
		return
	}
	v.ExpandedReviewID = reviewID
}

// OpenLightbox заменяет открытое изображение, одновременно показывается одно
func (v *ViewState) OpenLightbox(imageURL string) {
	v.LightboxImage = imageURL
}

// CloseLightbox - закрытие кнопкой или кликом по фону
func (v *ViewState) CloseLightbox() {
	v.LightboxImage = ""
}
