package notification

// SetProviderFactory replaces the provider constructor used by h.
func (h *NotificationHandler) SetProviderFactory(f ProviderFactory) { h.newProvider = f }
