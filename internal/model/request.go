package model

// Auth requests.

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ActivateRequest struct {
	ActivationToken string `json:"activation_token"`
	ActivationCode  string `json:"activation_code"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SocialAuthRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// User requests.

type UpdateInfoRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type UpdateAvatarRequest struct {
	Avatar string `json:"avatar"`
}

type UpdateRoleRequest struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// Course requests.

type CourseInput struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          float64         `json:"price"`
	EstimatedPrice float64         `json:"estimated_price"`
	Thumbnail      string          `json:"thumbnail"`
	Tags           string          `json:"tags"`
	Level          string          `json:"level"`
	DemoURL        string          `json:"demo_url"`
	Benefits       []TitleItem     `json:"benefits"`
	Prerequisites  []TitleItem     `json:"prerequisites"`
	Sections       []CourseContent `json:"course_data"`
}

type AddQuestionRequest struct {
	CourseID  string `json:"course_id"`
	ContentID string `json:"content_id"`
	Question  string `json:"question"`
}

type AddAnswerRequest struct {
	CourseID   string `json:"course_id"`
	ContentID  string `json:"content_id"`
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

type AddReviewRequest struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

type AddReviewReplyRequest struct {
	CourseID string `json:"course_id"`
	ReviewID string `json:"review_id"`
	Comment  string `json:"comment"`
}

// Order requests.

type CreateOrderRequest struct {
	CourseID    string         `json:"course_id"`
	PaymentInfo map[string]any `json:"payment_info"`
}
