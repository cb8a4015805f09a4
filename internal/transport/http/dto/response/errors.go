package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Error: "invalid request format",
	}

	ErrMissingCredentials = ErrorResponse{
		Error: "username and password required",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Error: "invalid credentials",
	}

	ErrAuthenticationRequired = ErrorResponse{
		Error: "authentication required",
	}

	ErrAdminRequired = ErrorResponse{
		Error: "admin access required",
	}

	ErrItemNotFound = ErrorResponse{
		Error: "portfolio item not found",
	}

	ErrMessageNotFound = ErrorResponse{
		Error: "contact message not found",
	}

	ErrInvalidID = ErrorResponse{
		Error: "invalid id",
	}

	ErrNoFile = ErrorResponse{
		Error: "no file provided",
	}

	ErrInternal = ErrorResponse{
		Error: "internal server error",
	}
)
