package main

// General API documentation for swaggo. Run `make swagger-gen` to regenerate docs.
//
// @title           neuttsd API
// @version         0.1.0
// @description     OpenAI-compatible text-to-speech API over local NeuTTS models.
//
// @contact.name   neuttsd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
