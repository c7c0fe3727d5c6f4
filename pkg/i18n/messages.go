package i18n

// DefaultMessages returns built-in translations for all supported locales.
// Files loaded with LoadDir override individual keys.
func DefaultMessages() map[Locale]map[string]string {
	return map[Locale]map[string]string{
		LocaleEn: enMessages,
		LocaleKo: koMessages,
	}
}

var enMessages = map[string]string{
	// Common errors
	"error.not_found":         "The requested resource was not found",
	"error.unauthorized":      "Authentication is required",
	"error.forbidden":         "You do not have permission to access this resource",
	"error.bad_request":       "Invalid request",
	"error.internal":          "An internal server error occurred",
	"error.too_many_requests": "Too many requests. Please try again later",
	"error.validation":        "Invalid input",
	"error.upload":            "The file could not be uploaded",
	"error.persistence":       "Your changes could not be saved. Please try again",
	"error.conflict":          "The request conflicts with the current state",

	// Auth
	"auth.login_failed":     "Invalid email or password",
	"auth.token_expired":    "Authentication token has expired. Please sign in again",
	"auth.token_invalid":    "Invalid authentication token",
	"auth.duplicate_email":  "This email is already registered",
	"auth.register_success": "Registration completed",

	// Coins & votes
	"coins.insufficient":      "You do not have enough coins",
	"vote.campaign_closed":    "This campaign is not accepting votes",
	"vote.invalid_amount":     "Vote amount must be at least 1 coin",
	"campaign.not_found":      "Campaign not found",
	"campaign.goal_not_met":   "The reservation goal has not been reached yet",
	"campaign.action_invalid": "This action is not available for the campaign's current state",
	"campaign.urls_required":  "At least one launch URL is required",

	// Submissions
	"submission.not_found":        "Submission not found",
	"submission.already_reviewed": "This submission has already been reviewed",
	"submission.not_approved":     "Only approved submissions can become campaigns",
	"submission.already_used":     "A campaign already exists for this submission",

	// Messages
	"message.not_found": "Message not found",

	// Editor
	"editor.session_not_found": "No editing session is open for this campaign",
	"editor.block_not_found":   "Block not found",
	"editor.unknown_op":        "Unknown editor operation",

	// Files
	"file.too_large":        "File size exceeds the 5MB limit",
	"file.type_not_allowed": "Only image files are allowed",
	"file.upload_failed":    "Image upload failed",

	// Rate limit
	"rate_limit.exceeded": "Rate limit exceeded. Please retry after %d seconds",

	// Search
	"search.query_required": "Search query is required",
}

var koMessages = map[string]string{
	// Common errors
	"error.not_found":         "요청한 리소스를 찾을 수 없습니다",
	"error.unauthorized":      "인증이 필요합니다",
	"error.forbidden":         "접근 권한이 없습니다",
	"error.bad_request":       "잘못된 요청입니다",
	"error.internal":          "서버 내부 오류가 발생했습니다",
	"error.too_many_requests": "요청이 너무 많습니다. 잠시 후 다시 시도해주세요",
	"error.validation":        "입력값이 올바르지 않습니다",
	"error.upload":            "파일을 업로드하지 못했습니다",
	"error.persistence":       "변경 사항을 저장하지 못했습니다. 다시 시도해주세요",
	"error.conflict":          "현재 상태와 충돌하는 요청입니다",

	// Auth
	"auth.login_failed":     "이메일 또는 비밀번호가 올바르지 않습니다",
	"auth.token_expired":    "인증 토큰이 만료되었습니다. 다시 로그인해주세요",
	"auth.token_invalid":    "유효하지 않은 인증 토큰입니다",
	"auth.duplicate_email":  "이미 사용 중인 이메일입니다",
	"auth.register_success": "회원가입이 완료되었습니다",

	// Coins & votes
	"coins.insufficient":      "코인이 부족합니다",
	"vote.campaign_closed":    "투표를 받지 않는 캠페인입니다",
	"vote.invalid_amount":     "투표는 최소 1코인 이상이어야 합니다",
	"campaign.not_found":      "캠페인을 찾을 수 없습니다",
	"campaign.goal_not_met":   "아직 예약 목표에 도달하지 않았습니다",
	"campaign.action_invalid": "현재 캠페인 상태에서는 사용할 수 없는 작업입니다",
	"campaign.urls_required":  "출시 URL을 하나 이상 입력해주세요",

	// Submissions
	"submission.not_found":        "제출된 아이디어를 찾을 수 없습니다",
	"submission.already_reviewed": "이미 검토된 아이디어입니다",
	"submission.not_approved":     "승인된 아이디어만 캠페인으로 만들 수 있습니다",
	"submission.already_used":     "이미 캠페인이 생성된 아이디어입니다",

	// Messages
	"message.not_found": "메시지를 찾을 수 없습니다",

	// Editor
	"editor.session_not_found": "열려 있는 편집 세션이 없습니다",
	"editor.block_not_found":   "블록을 찾을 수 없습니다",
	"editor.unknown_op":        "알 수 없는 편집 작업입니다",

	// Files
	"file.too_large":        "파일 크기가 5MB 제한을 초과했습니다",
	"file.type_not_allowed": "이미지 파일만 업로드할 수 있습니다",
	"file.upload_failed":    "이미지 업로드에 실패했습니다",

	// Rate limit
	"rate_limit.exceeded": "요청 제한을 초과했습니다. %d초 후 다시 시도해주세요",

	// Search
	"search.query_required": "검색어를 입력해주세요",
}
