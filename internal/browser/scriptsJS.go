package browser

// JS script to highlight clicked elements
const HighlightClickScript = `() => { this.style.outline = "3px solid #00FF00" }`

// JS script to highlight typed elements
const HighlightTypeScript = `() => { this.style.outline = "3px solid blue" }`

// ReadyStateScript возвращает document.readyState страницы.
const ReadyStateScript = `() => document.readyState`
