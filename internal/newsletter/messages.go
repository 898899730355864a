package newsletter

// User-facing messages. The site is French-only.
const (
	MsgInvalidEmail      = "Adresse email invalide. Veuillez réessayer."
	MsgAlreadySubscribed = "Cette adresse email est déjà inscrite à notre newsletter."
	MsgReactivated       = "Votre inscription a été réactivée avec succès !"
	MsgCreated           = "Inscription réussie ! Vous recevrez bientôt nos actualités."
	MsgInternal          = "Une erreur est survenue. Veuillez réessayer plus tard."
	MsgListInternal      = "Une erreur est survenue lors de la récupération des données."
	MsgUnsubscribed      = "Votre désinscription a bien été prise en compte."
	MsgNotSubscribed     = "Cette adresse email n'est pas inscrite à notre newsletter."
)
