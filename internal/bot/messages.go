package bot

// =============================================================================
// General messages
// =============================================================================

const (
	MsgUnexpectedErr = `Error inesperado: %s`
	MsgVersionInfo   = "Versión: %s\nCompilado: %s"
	MsgUnknownInput  = "No te he entendido. Usa los botones del menú o /start"
)

const MsgWelcome = `
	🤖 ¡Hola! Soy *WallBot*

	🔍 Tu asistente para búsquedas en Wallapop

	✨ *Características:*
	• 🎯 Búsqueda inteligente solo en títulos
	• ⭐ Información de valoraciones del vendedor
	• 💰 Alertas de bajadas de precio
	• 📱 Interfaz visual fácil de usar

	👇 *Usa los botones para empezar:*
`

const MsgMainMenu = `
	🏠 *Menú Principal*

	Selecciona una opción:
`

const MsgHelp = `
	❓ *Ayuda - WallBot*

	🤖 *¿Qué hace este bot?*
	Busca productos en Wallapop y te notifica cuando encuentra resultados o bajadas de precio.

	📝 *Comandos:*
	• /add producto,min-max,categorías - Añadir búsqueda
	• /list - Ver búsquedas
	• /del producto - Borrar búsqueda
	• /cancelar - Cancelar el asistente

	💡 *Tip:* Usa palabras específicas para mejores resultados
`

// =============================================================================
// Wizard messages
// =============================================================================

const MsgWizardKeywordsPrompt = `
	➕ *Añadir nueva búsqueda - Paso 1/2*

	🔍 *¿Qué quieres buscar?*
	Escribe las palabras clave del producto:

	📝 _Ejemplo: iPhone 15 Pro Max_
`

const MsgWizardPriceStep = `
	➕ *Añadir nueva búsqueda - Paso 2/2*

	🔍 Producto: %s

	💰 *¿Qué rango de precio te interesa?*
	Selecciona una opción:
`

const MsgCategoryPriceStep = `
	💰 *Selecciona rango de precio*

	📂 Categoría: %s
	Elige el rango de precio que te interesa:
`

const MsgCategoriesMenu = `
	📂 *Categorías Populares*

	Selecciona una categoría para búsquedas rápidas:
`

const MsgCustomPricePrompt = `
	✍️ *Precio personalizado*

	💰 *Escribe el rango de precio en el siguiente mensaje:*

	🔢 *Ejemplos válidos:*
	• 100-500 → entre 100€ y 500€
	• 200- → desde 200€ (sin límite superior)
	• -300 → hasta 300€ (sin límite inferior)
	• 150 → precio máximo 150€
`

const MsgCustomPriceError = `
	❌ *Error en el formato*

	*Problema:* %s

	📝 *Formatos válidos:*
	• 100-500 → entre 100€ y 500€
	• 200- → desde 200€
	• -300 → hasta 300€
	• 150 → máximo 150€

	💡 Vuelve a escribir el precio:
`

const (
	MsgWizardKeywordsEmpty = "❌ Por favor, escribe algo para buscar"
	MsgWizardUseButtons    = "👆 Elige una opción con los botones"
	MsgWizardExpired       = "⌛ Este menú ya no está activo. Empieza de nuevo con /start"
	MsgWizardCancelled     = "Ok, búsqueda cancelada."
)

// =============================================================================
// Subscription messages
// =============================================================================

const MsgSubscriptionCreated = `
	✅ *¡Búsqueda creada correctamente!*

	🔍 *Producto:* %s
	💰 *Precio:* %s%s

	🔔 Te notificaré cuando encuentre productos nuevos o bajadas de precio
`

const (
	MsgSubscriptionCategories   = "\n📂 *Categorías:* %s"
	MsgSubscriptionNoPrice      = "Sin límite"
	MsgSubscriptionExists       = "⚠️ Ya tienes una búsqueda con esas palabras: %s"
	MsgSubscriptionLimit        = "⚠️ Has alcanzado el máximo de %d búsquedas. Borra alguna antes de añadir otra."
	MsgSubscriptionCreateFailed = "❌ *Error al crear la búsqueda*\n\nInténtalo de nuevo con /start"
	MsgSubscriptionDeleted      = "✅ Búsqueda eliminada: %s"
	MsgSubscriptionNotFound     = "❌ No tienes ninguna búsqueda llamada %s"
	MsgSubscriptionDeleteFailed = "❌ Error al eliminar la búsqueda"
)

const (
	MsgAddUsage            = "Uso: /add producto,min-max,categorías\nEjemplo: /add iphone 12,100-300,24103"
	MsgAddInvalidPrice     = "❌ Rango de precio no válido: %s"
	MsgAddInvalidCategory  = "❌ Categorías no válidas: %s. Usa números separados por comas."
	MsgDelUsage            = "Uso: /del producto"
	MsgNoSubscriptions     = "📋 *Mis búsquedas*\n\n❌ No tienes búsquedas activas\n\n💡 Usa \"➕ Añadir búsqueda\" para crear una"
	MsgSubscriptionsHeader = "📋 *Mis búsquedas* (%d)\n\n"
	MsgSubscriptionItem    = "🔍 *%d.* %s\n"
)

// =============================================================================
// Price parsing errors
// =============================================================================

const (
	MsgPriceMinInvalid   = "Precio mínimo '%s' no es válido"
	MsgPriceMaxInvalid   = "Precio máximo '%s' no es válido"
	MsgPriceInvalid      = "Precio '%s' no es válido"
	MsgPriceMissing      = "Debes especificar al menos un precio (mínimo o máximo)"
	MsgPriceMinNotBelow  = "El precio mínimo debe ser menor que el máximo"
	MsgPriceRangeDisplay = "%s€ - %s€"
)

// =============================================================================
// Button labels
// =============================================================================

const (
	BtnAddSearch    = "➕ Añadir búsqueda"
	BtnMySearches   = "📋 Mis búsquedas"
	BtnCategories   = "📂 Categorías"
	BtnHelp         = "❓ Ayuda"
	BtnBack         = "🔙 Volver"
	BtnBackToMenu   = "🔙 Volver al menú"
	BtnMainMenu     = "🔙 Menú Principal"
	BtnChangeSearch = "🔙 Cambiar búsqueda"
	BtnCustomPrice  = "✍️ Personalizar"
	BtnNoLimit      = "🔄 Sin límite"
	BtnCancel       = "❌ Cancelar"
	BtnDeleteSearch = "🗑️ Borrar %d"
)
