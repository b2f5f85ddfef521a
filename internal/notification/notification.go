// Package notification carries business-rule violations from the use cases to
// the HTTP layer without raising errors. Every call builds its own Result, so
// nothing here is shared between requests.
package notification

// Notification descreve uma violação de regra de negócio
type Notification struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// New cria uma nova instância de Notification
func New(code, message string) Notification {
	return Notification{Code: code, Message: message}
}

// Result é o retorno de um caso de uso: o payload e as notificações geradas
type Result[T any] struct {
	Data          T
	notifications []Notification
	notFound      bool
}

// Ok cria um Result sem notificações
func Ok[T any](data T) Result[T] {
	return Result[T]{Data: data}
}

// Fail cria um Result já notificado
func Fail[T any](notifications ...Notification) Result[T] {
	var r Result[T]
	r.Notify(notifications...)
	return r
}

// NotFound cria um Result notificado de recurso inexistente
func NotFound[T any](code, message string) Result[T] {
	var r Result[T]
	r.NotifyNotFound(code, message)
	return r
}

// Notify adiciona notificações ao resultado
func (r *Result[T]) Notify(notifications ...Notification) {
	r.notifications = append(r.notifications, notifications...)
}

// NotifyNotFound adiciona uma notificação de recurso não encontrado
func (r *Result[T]) NotifyNotFound(code, message string) {
	r.notFound = true
	r.notifications = append(r.notifications, New(code, message))
}

// Success indica que nenhuma notificação foi registrada
func (r Result[T]) Success() bool {
	return len(r.notifications) == 0
}

// NotFound indica que ao menos uma notificação é de recurso não encontrado
func (r Result[T]) NotFound() bool {
	return r.notFound
}

// Notifications devolve uma cópia das notificações; nunca é nil
func (r Result[T]) Notifications() []Notification {
	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

// Has verifica se existe notificação com o código informado
func (r Result[T]) Has(code string) bool {
	for _, n := range r.notifications {
		if n.Code == code {
			return true
		}
	}
	return false
}

// Forward converte o resultado para outro tipo de payload mantendo as notificações
func Forward[T, U any](r Result[T], data U) Result[U] {
	return Result[U]{
		Data:          data,
		notifications: r.Notifications(),
		notFound:      r.notFound,
	}
}

// Set acumula notificações durante uma validação
type Set []Notification

// Add registra uma nova notificação
func (s *Set) Add(code, message string) {
	*s = append(*s, New(code, message))
}

// AddIf registra a notificação quando a condição for verdadeira
func (s *Set) AddIf(cond bool, code, message string) {
	if cond {
		s.Add(code, message)
	}
}

// Empty indica que nada foi registrado
func (s Set) Empty() bool {
	return len(s) == 0
}
