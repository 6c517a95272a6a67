package user

type CreateUserInput struct {
	Username string  `json:"username" form:"username" binding:"required,min=3,max=50" example:"johndoe"`
	Password string  `json:"password" form:"password" binding:"required,min=6" example:"password123"`
	FullName *string `json:"full_name" form:"full_name" example:"John Doe"`
}

type LoginInput struct {
	Username string `json:"username" form:"username" binding:"required" example:"johndoe"`
	Password string `json:"password" form:"password" binding:"required" example:"password123"`
	GroupID  uint   `json:"group_id" form:"group_id" example:"1"`
}
