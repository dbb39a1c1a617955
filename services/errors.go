package services

import (
	"errors"
	"net/http"
)

// ErrorKind classifies a failed operation.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindForbidden
	KindNotFound
	KindConflict
)

// Status returns the HTTP-style status mirrored by the kind.
func (k ErrorKind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is the failure value returned by every operation. Message is
// meant to be shown to the user as is.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindInternal {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP-style status of the error.
func (e *Error) Status() int { return e.Kind.Status() }

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func internalError(err error) *Error {
	return &Error{Kind: KindInternal, Message: MsgInternal, Err: err}
}

// KindOf returns the kind of err, KindInternal for foreign errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// StatusOf returns the HTTP-style status of err.
func StatusOf(err error) int {
	return KindOf(err).Status()
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return MsgInternal
}

// User-facing messages.
const (
	MsgInternal            = "Ocurrió un error inesperado"
	MsgLoginRequired       = "Debes iniciar sesión"
	MsgGroupNotFound       = "Grupo no encontrado"
	MsgGroupNameRequired   = "El nombre del grupo es obligatorio"
	MsgGroupNameTaken      = "Ya existe un grupo con ese nombre"
	MsgGroupPrivate        = "Este grupo es privado"
	MsgNotGroupAdmin       = "Solo los administradores pueden realizar esta acción"
	MsgCannotDeleteGroup   = "Solo el creador o un administrador puede eliminar el grupo"
	MsgAlreadyMember       = "Ya eres miembro de este grupo"
	MsgNotMember           = "No eres miembro de este grupo"
	MsgCreatorCannotLeave  = "El creador no puede abandonar el grupo; elimínalo o transfiere la administración"
	MsgTargetNotMember     = "El usuario no es miembro del grupo"
	MsgInvalidRole         = "Rol no válido"
	MsgMembersOnly         = "Debes ser miembro del grupo para participar"
	MsgPostNotFound        = "Publicación no encontrada"
	MsgCommentNotFound     = "Comentario no encontrado"
	MsgContentTooLong      = "El contenido no puede superar los 1000 caracteres"
	MsgInvalidLink         = "El enlace no es una URL válida"
	MsgEmptyPost           = "La publicación debe incluir texto, un enlace, una imagen o un archivo"
	MsgEmptyComment        = "El comentario no puede estar vacío"
	MsgCannotDeletePost    = "No tienes permiso para eliminar esta publicación"
	MsgCannotDeleteComment = "No tienes permiso para eliminar este comentario"
	MsgSearchTooShort      = "La búsqueda debe tener al menos 3 caracteres"
	MsgNotificationMissing = "Notificación no encontrada"
	MsgInvalidEmail        = "El correo electrónico no es válido"
	MsgPasswordTooShort    = "La contraseña debe tener al menos 6 caracteres"
	MsgNameRequired        = "El nombre es obligatorio"
	MsgEmailTaken          = "Ya existe una cuenta con ese correo"
	MsgBadCredentials      = "Correo o contraseña incorrectos"
	MsgUserNotFound        = "Usuario no encontrado"
)
