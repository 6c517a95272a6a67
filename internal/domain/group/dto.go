package group

type GroupCreateDTO struct {
	Name        string  `json:"name" binding:"required,max=100" example:"Finance"`
	Description *string `json:"description" example:"Finance department"`
}

type MemberInputDTO struct {
	UserID uint   `json:"user_id" binding:"required" example:"2"`
	Role   string `json:"role" binding:"required,max=50" example:"ACCOUNTANT"`
}
