package i18n

import "golang.org/x/text/language"

// catalogs holds every user-facing message keyed by locale. Keys ending in
// _detail are the long form shown in the problem-detail "detail" field.
var catalogs = map[language.Tag]map[string]string{
	language.English: {
		"exception_auth_wrong_credentials":        "wrong credentials",
		"exception_auth_wrong_credentials_detail": "the username or password is incorrect",
		"exception_auth_user_disabled":            "user disabled",
		"exception_auth_user_disabled_detail":     "the account is disabled, contact an administrator",
		"exception_auth_user_locked":              "user locked",
		"exception_auth_user_locked_detail":       "the account is locked, contact an administrator",
		"exception_auth_unknown_error":            "authentication failed",
		"exception_auth_unknown_error_detail":     "the credentials could not be verified",
		"exception_jwt_revoked":                   "session no longer valid",
		"exception_jwt_revoked_detail":            "the session was revoked or expired, authenticate again",
		"exception_auth_permission_error":         "not enough permissions",
		"exception_auth_permission_error_detail":  "the current user is not allowed to perform this operation",
		"exception_not_the_owner":                 "not the owner",
		"exception_not_the_owner_detail":          "the resource belongs to another user",
		"exception_forbidden_action":              "forbidden action",
		"exception_forbidden_action_detail":       "the requested action is not permitted",
		"exception_id_not_found":                  "id not found",
		"exception_id_not_found_user_detail":      "no user exists with id %d",
		"exception_id_not_found_json_detail":      "no JSON content exists with id %d",
		"exception_id_not_found_token_user":       "no sessions exist for user with id %d",
		"exception_id_not_found_token_jwt":        "no session exists for the presented token",
		"exception_username_not_found":            "no user exists with username %s",
		"error_invalid_body_field":                "invalid field value",
		"error_invalid_body_field_detail":         "one or more fields in the request body are invalid",
		"exception_data_integrity":                "duplicate value",
		"exception_data_integrity_detail":         "a unique field already holds this value",
		"exception_server_error":                  "server error",
		"exception_jwt_processing":                "token processing error",
		"exception_jwt_processing_detail":         "the bearer token could not be processed",
		"error_auditor_empty":                     "no authenticated user in the current request",
		"error_delete_own_user":                   "an account cannot delete itself",
		"error_deactivate_own_user":               "an account cannot deactivate itself",
		"error_deactivate_manager":                "only manager accounts can be deactivated here",
		"error_deactivate_user":                   "only regular user accounts can be deactivated here",
		"error_delete_user":                       "manager accounts cannot be deleted here",
		"error_update_not_the_owner":              "only the owner can update this JSON content",
		"error_delete_not_the_owner":              "only the owner can delete this JSON content",
		"error_list_no_permissions":               "listing requires an authenticated user",
		"error_invalid_role_manager":              "managers can only have the ADMIN or SUPERVISOR role",
		"error_invalid_role_user":                 "users cannot have the ADMIN or SUPERVISOR role",
		"exception_repository_save_error_unique_name_json": "a JSON content with that name already exists for this user",
		"exception_repository_save_error_invalid_json":     "the JSON content could not be saved",
		"exception_repository_save_error_token_revoke":     "the sessions could not be deleted",
	},
	language.Spanish: {
		"exception_auth_wrong_credentials":        "credenciales incorrectas",
		"exception_auth_wrong_credentials_detail": "el nombre de usuario o la contraseña son incorrectos",
		"exception_auth_user_disabled":            "usuario deshabilitado",
		"exception_auth_user_disabled_detail":     "la cuenta está deshabilitada, contacte a un administrador",
		"exception_auth_user_locked":              "usuario bloqueado",
		"exception_auth_user_locked_detail":       "la cuenta está bloqueada, contacte a un administrador",
		"exception_auth_unknown_error":            "error de autenticación",
		"exception_auth_unknown_error_detail":     "no se pudieron verificar las credenciales",
		"exception_jwt_revoked":                   "sesión ya no válida",
		"exception_jwt_revoked_detail":            "la sesión fue revocada o expiró, autentíquese de nuevo",
		"exception_auth_permission_error":         "permisos insuficientes",
		"exception_auth_permission_error_detail":  "el usuario actual no puede realizar esta operación",
		"exception_not_the_owner":                 "no es el propietario",
		"exception_not_the_owner_detail":          "el recurso pertenece a otro usuario",
		"exception_forbidden_action":              "acción prohibida",
		"exception_forbidden_action_detail":       "la acción solicitada no está permitida",
		"exception_id_not_found":                  "id no encontrado",
		"exception_id_not_found_user_detail":      "no existe un usuario con id %d",
		"exception_id_not_found_json_detail":      "no existe un contenido JSON con id %d",
		"exception_id_not_found_token_user":       "no existen sesiones para el usuario con id %d",
		"exception_id_not_found_token_jwt":        "no existe una sesión para el token presentado",
		"exception_username_not_found":            "no existe un usuario con nombre %s",
		"error_invalid_body_field":                "valor de campo inválido",
		"error_invalid_body_field_detail":         "uno o más campos del cuerpo de la petición son inválidos",
		"exception_data_integrity":                "valor duplicado",
		"exception_data_integrity_detail":         "un campo único ya contiene este valor",
		"exception_server_error":                  "error del servidor",
		"exception_jwt_processing":                "error al procesar el token",
		"exception_jwt_processing_detail":         "el token bearer no pudo ser procesado",
		"error_auditor_empty":                     "no hay usuario autenticado en la petición actual",
		"error_delete_own_user":                   "una cuenta no puede eliminarse a sí misma",
		"error_deactivate_own_user":               "una cuenta no puede desactivarse a sí misma",
		"error_deactivate_manager":                "aquí solo se pueden desactivar cuentas de gestores",
		"error_deactivate_user":                   "aquí solo se pueden desactivar cuentas de usuarios regulares",
		"error_delete_user":                       "las cuentas de gestores no se pueden eliminar aquí",
		"error_update_not_the_owner":              "solo el propietario puede actualizar este contenido JSON",
		"error_delete_not_the_owner":              "solo el propietario puede eliminar este contenido JSON",
		"error_list_no_permissions":               "el listado requiere un usuario autenticado",
		"error_invalid_role_manager":              "los gestores solo pueden tener el rol ADMIN o SUPERVISOR",
		"error_invalid_role_user":                 "los usuarios no pueden tener el rol ADMIN o SUPERVISOR",
		"exception_repository_save_error_unique_name_json": "ya existe un contenido JSON con ese nombre para este usuario",
		"exception_repository_save_error_invalid_json":     "el contenido JSON no pudo ser guardado",
		"exception_repository_save_error_token_revoke":     "las sesiones no pudieron ser eliminadas",
	},
	language.Portuguese: {
		"exception_auth_wrong_credentials":        "credenciais incorretas",
		"exception_auth_wrong_credentials_detail": "o nome de usuário ou a senha estão incorretos",
		"exception_auth_user_disabled":            "usuário desativado",
		"exception_auth_user_disabled_detail":     "a conta está desativada, contate um administrador",
		"exception_auth_user_locked":              "usuário bloqueado",
		"exception_auth_user_locked_detail":       "a conta está bloqueada, contate um administrador",
		"exception_auth_unknown_error":            "falha de autenticação",
		"exception_auth_unknown_error_detail":     "as credenciais não puderam ser verificadas",
		"exception_jwt_revoked":                   "sessão não é mais válida",
		"exception_jwt_revoked_detail":            "a sessão foi revogada ou expirou, autentique-se novamente",
		"exception_auth_permission_error":         "permissões insuficientes",
		"exception_auth_permission_error_detail":  "o usuário atual não pode realizar esta operação",
		"exception_not_the_owner":                 "não é o proprietário",
		"exception_not_the_owner_detail":          "o recurso pertence a outro usuário",
		"exception_forbidden_action":              "ação proibida",
		"exception_forbidden_action_detail":       "a ação solicitada não é permitida",
		"exception_id_not_found":                  "id não encontrado",
		"exception_id_not_found_user_detail":      "não existe usuário com id %d",
		"exception_id_not_found_json_detail":      "não existe conteúdo JSON com id %d",
		"exception_id_not_found_token_user":       "não existem sessões para o usuário com id %d",
		"exception_id_not_found_token_jwt":        "não existe sessão para o token apresentado",
		"exception_username_not_found":            "não existe usuário com nome %s",
		"error_invalid_body_field":                "valor de campo inválido",
		"error_invalid_body_field_detail":         "um ou mais campos do corpo da requisição são inválidos",
		"exception_data_integrity":                "valor duplicado",
		"exception_data_integrity_detail":         "um campo único já contém este valor",
		"exception_server_error":                  "erro do servidor",
		"exception_jwt_processing":                "erro ao processar o token",
		"exception_jwt_processing_detail":         "o token bearer não pôde ser processado",
		"error_auditor_empty":                     "não há usuário autenticado na requisição atual",
		"error_delete_own_user":                   "uma conta não pode excluir a si mesma",
		"error_deactivate_own_user":               "uma conta não pode desativar a si mesma",
		"error_deactivate_manager":                "apenas contas de gestores podem ser desativadas aqui",
		"error_deactivate_user":                   "apenas contas de usuários regulares podem ser desativadas aqui",
		"error_delete_user":                       "contas de gestores não podem ser excluídas aqui",
		"error_update_not_the_owner":              "apenas o proprietário pode atualizar este conteúdo JSON",
		"error_delete_not_the_owner":              "apenas o proprietário pode excluir este conteúdo JSON",
		"error_list_no_permissions":               "a listagem requer um usuário autenticado",
		"error_invalid_role_manager":              "gestores só podem ter o papel ADMIN ou SUPERVISOR",
		"error_invalid_role_user":                 "usuários não podem ter o papel ADMIN ou SUPERVISOR",
		"exception_repository_save_error_unique_name_json": "já existe um conteúdo JSON com esse nome para este usuário",
		"exception_repository_save_error_invalid_json":     "o conteúdo JSON não pôde ser salvo",
		"exception_repository_save_error_token_revoke":     "as sessões não puderam ser excluídas",
	},
}
