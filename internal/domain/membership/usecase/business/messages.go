package business

// Member and operator texts
const (
	msgWelcome        = "Assinatura %s aprovada! Bem-vindo ao grupo de mentoria."
	msgInviteLink     = "Entre no grupo pelo link: %s"
	msgExpired        = "Assinatura expirada. Removido do grupo. Renove na Kiwify!"
	msgReminder       = "Sua assinatura %s vence em %d dias. Renove!"
	msgJoinChannel    = "Bem-vindo(a)! Para continuar no grupo, envie em até 2 minutos no privado do bot: /register seu-email-da-compra"
	msgJoinDirect     = "Olá! Envie /register seu-email-da-compra em até 2 minutos para validar sua assinatura e continuar no grupo."
	msgGraceRemoved   = "Não encontramos uma assinatura ativa vinculada à sua conta. Você foi removido do grupo. Assine na Kiwify e envie /register seu-email."
	adminActivated    = "Nova/renovada %s para %s (user_id %d)."
	adminCancelled    = "Cancelado/atrasado %s para %s (user_id %d)."
	adminIgnored      = "Evento %q ignorado para %s (user_id %d)."
	adminSweepExpired = "Removido %d (%s) por expiração."
	adminReminder     = "Aviso para %d (%s): %d dias."
	adminGraceRemoved = "Removido %d: sem assinatura ativa após o período de registro."
	adminRegistered   = "Email %s vinculado ao user_id %d (assinatura ativa: %t)."
)
