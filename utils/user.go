package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// ContextUserKey is where the auth middleware stores the TokenObject.
const ContextUserKey = "user"

func GetActiveUser(ctx *gin.Context) (TokenObject, error) {
	value, exists := ctx.Get(ContextUserKey)
	if !exists {
		return TokenObject{}, fmt.Errorf("error occurred, not authorized to access this resource")
	}

	user, ok := value.(TokenObject)
	if !ok {
		return TokenObject{}, fmt.Errorf("an error occurred")
	}

	return user, nil
}
